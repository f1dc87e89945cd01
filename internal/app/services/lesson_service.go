package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/app/models/dto"
	"github.com/deniz/coursehub/internal/app/repositories"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/helpers"
)

// LessonService handles lesson lifecycle operations
type LessonService struct {
	lessonRepo repositories.ILessonRepository
	courseRepo repositories.ICourseRepository
	now        func() time.Time
}

// NewLessonService creates a new lesson service instance
func NewLessonService(lessonRepo repositories.ILessonRepository, courseRepo repositories.ICourseRepository) *LessonService {
	return &LessonService{
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
		now:        helpers.UTCNow,
	}
}

// WithClock overrides the service clock, for tests
func (s *LessonService) WithClock(now func() time.Time) *LessonService {
	s.now = now
	return s
}

// validateOrder checks that an order value is a legal slot
func validateOrder(order int) error {
	if order < 1 {
		return apperrors.NewValidationError("Order must be at least 1.")
	}
	return nil
}

// CreateLesson creates a new lesson in a course. The requested order must be
// free among the course's active lessons; orders need not be contiguous.
func (s *LessonService) CreateLesson(ctx context.Context, courseID uuid.UUID, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if err := validateOrder(req.Order); err != nil {
		return nil, err
	}

	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error checking course existence: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrCourseNotFound
	}

	taken, err := s.lessonRepo.OrderTaken(ctx, courseID, req.Order, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("error checking order availability: %w", err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateOrder
	}

	now := s.now()
	lesson := &models.Lesson{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     title,
		Order:     req.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique index backs up the check above; a concurrent insert into the
	// same slot still comes back as ErrDuplicateOrder from the repository.
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// UpdateLesson updates the title and order of an existing lesson
func (s *LessonService) UpdateLesson(ctx context.Context, id uuid.UUID, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if err := validateOrder(req.Order); err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Order != lesson.Order {
		taken, err := s.lessonRepo.OrderTaken(ctx, lesson.CourseID, req.Order, lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("error checking order availability: %w", err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateOrder
		}
	}

	lesson.Title = title
	lesson.Order = req.Order
	lesson.UpdatedAt = s.now()

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// DeleteLesson soft-deletes a lesson. Its order slot is freed for active
// uniqueness checks but the row keeps its order value.
func (s *LessonService) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	lesson.IsDeleted = true
	lesson.UpdatedAt = s.now()

	return s.lessonRepo.Update(ctx, lesson)
}

// GetLessonsByCourse lists the active lessons of a course ordered ascending
func (s *LessonService) GetLessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]dto.LessonListItem, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error checking course existence: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrCourseNotFound
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}

	items := make([]dto.LessonListItem, 0, len(lessons))
	for _, lesson := range lessons {
		items = append(items, dto.LessonListItem{
			ID:        lesson.ID,
			CourseID:  lesson.CourseID,
			Title:     lesson.Title,
			Order:     lesson.Order,
			CreatedAt: lesson.CreatedAt,
			UpdatedAt: lesson.UpdatedAt,
		})
	}

	return items, nil
}
