package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deniz/coursehub/internal/app/controllers"
	"github.com/deniz/coursehub/internal/app/models/dto"
	"github.com/deniz/coursehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	lessonController *controllers.LessonController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		courses := authenticated.Group("/courses")
		{
			courses.POST("", courseController.CreateCourse)
			courses.GET("/search", courseController.SearchCourses)
			courses.GET("/:id/summary", courseController.GetCourseSummary)
			courses.PUT("/:id", courseController.UpdateCourse)
			courses.DELETE("/:id", courseController.DeleteCourse)
			courses.PATCH("/:id/publish", courseController.PublishCourse)
			courses.PATCH("/:id/unpublish", courseController.UnpublishCourse)

			// Lessons are created and listed through their course
			courses.POST("/:id/lessons", lessonController.CreateLesson)
			courses.GET("/:id/lessons", lessonController.GetLessons)
		}

		lessons := authenticated.Group("/lessons")
		{
			lessons.PUT("/:id", lessonController.UpdateLesson)
			lessons.DELETE("/:id", lessonController.DeleteLesson)
			lessons.PATCH("/:id/move-up", lessonController.MoveLessonUp)
			lessons.PATCH("/:id/move-down", lessonController.MoveLessonDown)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
