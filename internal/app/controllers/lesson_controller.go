package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/coursehub/internal/app/models/dto"
	"github.com/deniz/coursehub/internal/app/services"
	"github.com/deniz/coursehub/internal/middleware"
)

// LessonController handles lesson-related operations
type LessonController struct {
	lessonService  *services.LessonService
	reorderService *services.ReorderService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService *services.LessonService, reorderService *services.ReorderService) *LessonController {
	return &LessonController{
		lessonService:  lessonService,
		reorderService: reorderService,
	}
}

// CreateLesson handles lesson creation within a course
// @Summary Create a new lesson
// @Description Creates a lesson in a course at the requested order slot
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Param request body dto.CreateLessonRequest true "Lesson information"
// @Success 200 {object} dto.APIResponse{data=dto.CreatedResponse} "Lesson created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate order"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	courseID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lesson, err := c.lessonService.CreateLesson(ctx, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.CreatedResponse{ID: lesson.ID},
		Timestamp: time.Now(),
	})
}

// GetLessons lists the active lessons of a course
// @Summary List course lessons
// @Description Retrieves the active lessons of a course ordered ascending
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.LessonListItem} "Lessons retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/lessons [get]
func (c *LessonController) GetLessons(ctx *gin.Context) {
	courseID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	lessons, err := c.lessonService.GetLessonsByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      lessons,
		Timestamp: time.Now(),
	})
}

// UpdateLesson handles lesson updates
// @Summary Update a lesson
// @Description Updates the title and order of an existing lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID" Format(uuid)
// @Param request body dto.UpdateLessonRequest true "Lesson information"
// @Success 204 "Lesson updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate order"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if _, err := c.lessonService.UpdateLesson(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteLesson handles lesson soft deletion
// @Summary Delete a lesson
// @Description Soft-deletes a lesson, freeing its order slot for active lessons
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID" Format(uuid)
// @Success 204 "Lesson deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.lessonService.DeleteLesson(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// MoveLessonUp swaps a lesson with the one above it
// @Summary Move a lesson up
// @Description Swaps the lesson with the lesson holding the slot directly above; no-op at the top or next to a gap
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID" Format(uuid)
// @Success 204 "Lesson moved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id}/move-up [patch]
func (c *LessonController) MoveLessonUp(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reorderService.MoveUp(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// MoveLessonDown swaps a lesson with the one below it
// @Summary Move a lesson down
// @Description Swaps the lesson with the lesson holding the slot directly below; no-op next to a gap
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID" Format(uuid)
// @Success 204 "Lesson moved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id}/move-down [patch]
func (c *LessonController) MoveLessonDown(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reorderService.MoveDown(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
