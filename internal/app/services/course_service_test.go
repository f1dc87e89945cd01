package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/app/models/dto"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
)

var baseTime = time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func setupCourseService() (*CourseService, *memStore) {
	store := newMemStore()
	svc := NewCourseService(&fakeCourseRepo{store: store}, &fakeLessonRepo{store: store}).
		WithClock(fixedClock(baseTime))
	return svc, store
}

func seedCourse(store *memStore, status models.CourseStatus, updatedAt time.Time) models.Course {
	course := models.Course{
		ID:        uuid.New(),
		Title:     "Seeded",
		Status:    status,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	store.courses[course.ID] = course
	return course
}

func seedLesson(store *memStore, courseID uuid.UUID, order int, deleted bool, updatedAt time.Time) models.Lesson {
	lesson := models.Lesson{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     "Seeded lesson",
		Order:     order,
		IsDeleted: deleted,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	store.lessons[lesson.ID] = lesson
	return lesson
}

func TestCreateCourse(t *testing.T) {
	svc, store := setupCourseService()

	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Title: "  Go from Zero  "})

	require.NoError(t, err)
	require.NotNil(t, course)
	assert.Equal(t, "Go from Zero", course.Title)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.Equal(t, baseTime, course.CreatedAt)
	assert.Equal(t, baseTime, course.UpdatedAt)

	saved, ok := store.courses[course.ID]
	require.True(t, ok)
	assert.False(t, saved.IsDeleted)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _ := setupCourseService()

	t.Run("blank title", func(t *testing.T) {
		_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Title: "   "})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Title: strings.Repeat("x", 201)})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestUpdateCourse(t *testing.T) {
	svc, store := setupCourseService()
	course := seedCourse(store, models.CourseStatusDraft, baseTime.Add(-time.Hour))

	updated, err := svc.UpdateCourse(context.Background(), course.ID, &dto.UpdateCourseRequest{Title: "New title"})

	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, baseTime, updated.UpdatedAt)
	assert.Equal(t, course.CreatedAt, updated.CreatedAt)

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.UpdateCourse(context.Background(), uuid.New(), &dto.UpdateCourseRequest{Title: "x"})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestDeleteCourse(t *testing.T) {
	svc, store := setupCourseService()
	course := seedCourse(store, models.CourseStatusPublished, baseTime.Add(-time.Hour))

	require.NoError(t, svc.DeleteCourse(context.Background(), course.ID))

	// Row stays in storage but reads no longer see it.
	saved := store.courses[course.ID]
	assert.True(t, saved.IsDeleted)
	assert.Equal(t, baseTime, saved.UpdatedAt)

	_, err := svc.GetCourseSummary(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	t.Run("delete twice", func(t *testing.T) {
		err := svc.DeleteCourse(context.Background(), course.ID)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestPublishCourse(t *testing.T) {
	t.Run("no lessons", func(t *testing.T) {
		svc, store := setupCourseService()
		course := seedCourse(store, models.CourseStatusDraft, baseTime.Add(-time.Hour))

		err := svc.PublishCourse(context.Background(), course.ID)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.EqualError(t, err, "Cannot publish a course without at least one active lesson.")
		assert.Equal(t, models.CourseStatusDraft, store.courses[course.ID].Status)
	})

	t.Run("only deleted lessons", func(t *testing.T) {
		svc, store := setupCourseService()
		course := seedCourse(store, models.CourseStatusDraft, baseTime.Add(-time.Hour))
		seedLesson(store, course.ID, 1, true, baseTime.Add(-time.Hour))

		err := svc.PublishCourse(context.Background(), course.ID)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("with active lesson", func(t *testing.T) {
		svc, store := setupCourseService()
		course := seedCourse(store, models.CourseStatusDraft, baseTime.Add(-time.Hour))
		seedLesson(store, course.ID, 1, false, baseTime.Add(-time.Hour))

		require.NoError(t, svc.PublishCourse(context.Background(), course.ID))

		saved := store.courses[course.ID]
		assert.Equal(t, models.CourseStatusPublished, saved.Status)
		assert.Equal(t, baseTime, saved.UpdatedAt)
	})

	t.Run("unknown course", func(t *testing.T) {
		svc, _ := setupCourseService()
		err := svc.PublishCourse(context.Background(), uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestUnpublishCourse(t *testing.T) {
	svc, store := setupCourseService()
	course := seedCourse(store, models.CourseStatusPublished, baseTime.Add(-time.Hour))

	require.NoError(t, svc.UnpublishCourse(context.Background(), course.ID))

	saved := store.courses[course.ID]
	assert.Equal(t, models.CourseStatusDraft, saved.Status)
	assert.Equal(t, baseTime, saved.UpdatedAt)
}

func TestSearchCourses(t *testing.T) {
	svc, store := setupCourseService()

	oldest := seedCourse(store, models.CourseStatusDraft, baseTime.Add(-3*time.Hour))
	middle := seedCourse(store, models.CourseStatusPublished, baseTime.Add(-2*time.Hour))
	newest := seedCourse(store, models.CourseStatusDraft, baseTime.Add(-time.Hour))
	deleted := seedCourse(store, models.CourseStatusDraft, baseTime)
	deleted.IsDeleted = true
	store.courses[deleted.ID] = deleted

	seedLesson(store, newest.ID, 1, false, baseTime)
	seedLesson(store, newest.ID, 2, true, baseTime)

	t.Run("orders by most recent update", func(t *testing.T) {
		result, err := svc.SearchCourses(context.Background(), nil, 1, 10)

		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.Equal(t, newest.ID, result.Items[0].ID)
		assert.Equal(t, middle.ID, result.Items[1].ID)
		assert.Equal(t, oldest.ID, result.Items[2].ID)
		assert.Equal(t, 3, result.TotalCount)

		// Deleted lesson does not count.
		assert.Equal(t, 1, result.Items[0].TotalLessons)
	})

	t.Run("filters by status", func(t *testing.T) {
		published := models.CourseStatusPublished
		result, err := svc.SearchCourses(context.Background(), &published, 1, 10)

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, middle.ID, result.Items[0].ID)
		assert.Equal(t, 1, result.TotalCount)
	})

	t.Run("clamps pagination", func(t *testing.T) {
		result, err := svc.SearchCourses(context.Background(), nil, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 10, result.PageSize)

		result, err = svc.SearchCourses(context.Background(), nil, -5, 500)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 10, result.PageSize)
	})

	t.Run("pages past the end", func(t *testing.T) {
		result, err := svc.SearchCourses(context.Background(), nil, 2, 10)

		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, 3, result.TotalCount)
		assert.Equal(t, 2, result.Page)
	})
}

func TestGetCourseSummary(t *testing.T) {
	t.Run("lesson modified after course", func(t *testing.T) {
		svc, store := setupCourseService()
		course := seedCourse(store, models.CourseStatusPublished, baseTime.Add(-2*time.Hour))
		seedLesson(store, course.ID, 1, false, baseTime.Add(-time.Hour))
		seedLesson(store, course.ID, 2, true, baseTime) // deleted, ignored

		summary, err := svc.GetCourseSummary(context.Background(), course.ID)

		require.NoError(t, err)
		assert.Equal(t, course.ID, summary.ID)
		assert.Equal(t, 1, summary.TotalLessons)
		assert.Equal(t, baseTime.Add(-time.Hour), summary.LastModification)
	})

	t.Run("course modified after lessons", func(t *testing.T) {
		svc, store := setupCourseService()
		course := seedCourse(store, models.CourseStatusDraft, baseTime)
		seedLesson(store, course.ID, 1, false, baseTime.Add(-time.Hour))

		summary, err := svc.GetCourseSummary(context.Background(), course.ID)

		require.NoError(t, err)
		assert.Equal(t, baseTime, summary.LastModification)
	})

	t.Run("no lessons", func(t *testing.T) {
		svc, store := setupCourseService()
		course := seedCourse(store, models.CourseStatusDraft, baseTime)

		summary, err := svc.GetCourseSummary(context.Background(), course.ID)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.TotalLessons)
		assert.Equal(t, course.UpdatedAt, summary.LastModification)
	})
}
