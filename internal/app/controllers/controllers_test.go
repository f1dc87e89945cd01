package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/app/models/dto"
	"github.com/deniz/coursehub/internal/app/repositories"
	"github.com/deniz/coursehub/internal/app/services"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/auth"
)

type stubCourseRepo struct {
	courses map[uuid.UUID]models.Course
}

var _ repositories.ICourseRepository = (*stubCourseRepo)(nil)

func (r *stubCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.courses[course.ID] = *course
	return nil
}

func (r *stubCourseRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok || course.IsDeleted {
		return nil, apperrors.ErrCourseNotFound
	}
	copy := course
	return &copy, nil
}

func (r *stubCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	r.courses[course.ID] = *course
	return nil
}

func (r *stubCourseRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	course, ok := r.courses[id]
	return ok && !course.IsDeleted, nil
}

func (r *stubCourseRepo) Search(_ context.Context, status *models.CourseStatus, _ uint64, _ int) ([]repositories.CourseRow, int, error) {
	rows := []repositories.CourseRow{}
	for _, course := range r.courses {
		if course.IsDeleted {
			continue
		}
		if status != nil && course.Status != *status {
			continue
		}
		rows = append(rows, repositories.CourseRow{Course: course})
	}
	return rows, len(rows), nil
}

type stubLessonRepo struct {
	lessons map[uuid.UUID]models.Lesson
}

var _ repositories.ILessonRepository = (*stubLessonRepo)(nil)

func (r *stubLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	r.lessons[lesson.ID] = *lesson
	return nil
}

func (r *stubLessonRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	lesson, ok := r.lessons[id]
	if !ok || lesson.IsDeleted {
		return nil, apperrors.ErrLessonNotFound
	}
	copy := lesson
	return &copy, nil
}

func (r *stubLessonRepo) Update(_ context.Context, lesson *models.Lesson) error {
	if _, ok := r.lessons[lesson.ID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	r.lessons[lesson.ID] = *lesson
	return nil
}

func (r *stubLessonRepo) ListByCourse(_ context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	for _, lesson := range r.lessons {
		if lesson.CourseID == courseID && !lesson.IsDeleted {
			lessons = append(lessons, lesson)
		}
	}
	return lessons, nil
}

func (r *stubLessonRepo) OrderTaken(_ context.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	for _, lesson := range r.lessons {
		if lesson.CourseID == courseID && lesson.Order == order && !lesson.IsDeleted && lesson.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLessonRepo) FindByOrder(_ context.Context, courseID uuid.UUID, order int) (*models.Lesson, error) {
	for _, lesson := range r.lessons {
		if lesson.CourseID == courseID && lesson.Order == order {
			copy := lesson
			return &copy, nil
		}
	}
	return nil, apperrors.ErrLessonNotFound
}

func (r *stubLessonRepo) CountActive(_ context.Context, courseID uuid.UUID) (int, error) {
	count := 0
	for _, lesson := range r.lessons {
		if lesson.CourseID == courseID && !lesson.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *stubLessonRepo) LastActivityAt(_ context.Context, courseID uuid.UUID) (*time.Time, error) {
	var last *time.Time
	for _, lesson := range r.lessons {
		if lesson.CourseID != courseID || lesson.IsDeleted {
			continue
		}
		updated := lesson.UpdatedAt
		if last == nil || updated.After(*last) {
			last = &updated
		}
	}
	return last, nil
}

func (r *stubLessonRepo) SwapOrders(_ context.Context, aID, bID uuid.UUID, now time.Time) error {
	a, okA := r.lessons[aID]
	b, okB := r.lessons[bID]
	if !okA || !okB {
		return apperrors.ErrLessonNotFound
	}
	a.Order, b.Order = b.Order, a.Order
	a.UpdatedAt = now
	b.UpdatedAt = now
	r.lessons[aID] = a
	r.lessons[bID] = b
	return nil
}

type stubUserRepo struct {
	users map[string]models.User
}

var _ repositories.IUserRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.Email]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	r.users[user.Email] = *user
	return nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	copy := user
	return &copy, nil
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

// newTestRouter wires real services and controllers over stub repositories,
// with the same route layout the application registers.
func newTestRouter() (*gin.Engine, *stubCourseRepo, *stubLessonRepo) {
	gin.SetMode(gin.TestMode)

	courseRepo := &stubCourseRepo{courses: make(map[uuid.UUID]models.Course)}
	lessonRepo := &stubLessonRepo{lessons: make(map[uuid.UUID]models.Lesson)}
	userRepo := &stubUserRepo{users: make(map[string]models.User)}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret-key-for-route-tests",
		TokenExp:    time.Hour,
		TokenIssuer: "coursehub",
	})

	courseController := NewCourseController(services.NewCourseService(courseRepo, lessonRepo))
	lessonController := NewLessonController(
		services.NewLessonService(lessonRepo, courseRepo),
		services.NewReorderService(lessonRepo),
	)
	authController := NewAuthController(services.NewAuthService(userRepo, jwtService))

	router := gin.New()
	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", authController.Register)
	v1.POST("/auth/login", authController.Login)

	courses := v1.Group("/courses")
	courses.POST("", courseController.CreateCourse)
	courses.GET("/search", courseController.SearchCourses)
	courses.GET("/:id/summary", courseController.GetCourseSummary)
	courses.PUT("/:id", courseController.UpdateCourse)
	courses.DELETE("/:id", courseController.DeleteCourse)
	courses.PATCH("/:id/publish", courseController.PublishCourse)
	courses.PATCH("/:id/unpublish", courseController.UnpublishCourse)
	courses.POST("/:id/lessons", lessonController.CreateLesson)
	courses.GET("/:id/lessons", lessonController.GetLessons)

	lessons := v1.Group("/lessons")
	lessons.PUT("/:id", lessonController.UpdateLesson)
	lessons.DELETE("/:id", lessonController.DeleteLesson)
	lessons.PATCH("/:id/move-up", lessonController.MoveLessonUp)
	lessons.PATCH("/:id/move-down", lessonController.MoveLessonDown)

	return router, courseRepo, lessonRepo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCreatedID(t *testing.T, w *httptest.ResponseRecorder) uuid.UUID {
	t.Helper()
	var envelope struct {
		Data dto.CreatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEqual(t, uuid.Nil, envelope.Data.ID)
	return envelope.Data.ID
}

func seedCourseRow(repo *stubCourseRepo, status models.CourseStatus) uuid.UUID {
	id := uuid.New()
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	repo.courses[id] = models.Course{ID: id, Title: "Seeded course", Status: status, CreatedAt: now, UpdatedAt: now}
	return id
}

func seedLessonRow(repo *stubLessonRepo, courseID uuid.UUID, order int) uuid.UUID {
	id := uuid.New()
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	repo.lessons[id] = models.Lesson{ID: id, CourseID: courseID, Title: "Seeded lesson", Order: order, CreatedAt: now, UpdatedAt: now}
	return id
}

func TestCourseRouteSuccessStatuses(t *testing.T) {
	router, courseRepo, lessonRepo := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/courses", `{"title":"Go from Zero"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	createdID := decodeCreatedID(t, w)

	courseID := seedCourseRow(courseRepo, models.CourseStatusDraft)
	seedLessonRow(lessonRepo, courseID, 1)

	w = doJSON(t, router, http.MethodPut, "/api/v1/courses/"+courseID.String(), `{"title":"Renamed course"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodPatch, "/api/v1/courses/"+courseID.String()+"/publish", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodPatch, "/api/v1/courses/"+courseID.String()+"/unpublish", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/courses/search", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/courses/"+courseID.String()+"/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/courses/"+createdID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLessonRouteSuccessStatuses(t *testing.T) {
	router, courseRepo, lessonRepo := newTestRouter()
	courseID := seedCourseRow(courseRepo, models.CourseStatusDraft)

	// Lesson creation reports success with the created id and a 200, unlike
	// course creation which is a 201.
	w := doJSON(t, router, http.MethodPost, "/api/v1/courses/"+courseID.String()+"/lessons", `{"title":"Introduction","order":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	firstID := decodeCreatedID(t, w)

	secondID := seedLessonRow(lessonRepo, courseID, 2)

	w = doJSON(t, router, http.MethodGet, "/api/v1/courses/"+courseID.String()+"/lessons", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/lessons/"+firstID.String(), `{"title":"Introduction, revised","order":1}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodPatch, "/api/v1/lessons/"+secondID.String()+"/move-up", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodPatch, "/api/v1/lessons/"+secondID.String()+"/move-down", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, "/api/v1/lessons/"+firstID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthRouteSuccessStatuses(t *testing.T) {
	router, _, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", `{"name":"Deniz","lastName":"Kaya","email":"deniz@example.com","password":"Sifre123!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decodeCreatedID(t, w)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"deniz@example.com","password":"Sifre123!"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
