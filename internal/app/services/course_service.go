package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/app/models/dto"
	"github.com/deniz/coursehub/internal/app/repositories"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/helpers"
)

const maxTitleLength = 200

// CourseService handles course lifecycle operations
type CourseService struct {
	courseRepo repositories.ICourseRepository
	lessonRepo repositories.ILessonRepository
	now        func() time.Time
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.ICourseRepository, lessonRepo repositories.ILessonRepository) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		now:        helpers.UTCNow,
	}
}

// WithClock overrides the service clock, for tests
func (s *CourseService) WithClock(now func() time.Time) *CourseService {
	s.now = now
	return s
}

// normalizeTitle trims a title and validates its length
func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.NewValidationError("Title is required.")
	}
	if len(title) > maxTitleLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("Title must be at most %d characters.", maxTitleLength))
	}
	return title, nil
}

// CreateCourse creates a new course in Draft status
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	course := &models.Course{
		ID:        uuid.New(),
		Title:     title,
		Status:    models.CourseStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	return course, nil
}

// UpdateCourse updates the title of an existing course
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, req *dto.UpdateCourseRequest) (*models.Course, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Title = title
	course.UpdatedAt = s.now()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse soft-deletes a course. The row stays in storage and its
// lessons are left untouched; course-scoped reads stop seeing it.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	course.IsDeleted = true
	course.UpdatedAt = s.now()

	return s.courseRepo.Update(ctx, course)
}

// PublishCourse transitions a course to Published. A course needs at least
// one active lesson before it can be published.
func (s *CourseService) PublishCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	activeLessons, err := s.lessonRepo.CountActive(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting course lessons: %w", err)
	}
	if activeLessons == 0 {
		return apperrors.ErrCourseHasNoActiveLessons
	}

	course.Status = models.CourseStatusPublished
	course.UpdatedAt = s.now()

	return s.courseRepo.Update(ctx, course)
}

// UnpublishCourse transitions a course back to Draft. Unpublishing has no
// precondition; a published course can always be pulled back.
func (s *CourseService) UnpublishCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	course.Status = models.CourseStatusDraft
	course.UpdatedAt = s.now()

	return s.courseRepo.Update(ctx, course)
}

// SearchCourses retrieves a page of non-deleted courses, optionally filtered
// by status, ordered by most recent update.
func (s *CourseService) SearchCourses(ctx context.Context, status *models.CourseStatus, page, pageSize int) (*dto.PagedCoursesResponse, error) {
	page = helpers.ClampPage(page)
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	rows, total, err := s.courseRepo.Search(ctx, status, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching courses: %w", err)
	}

	items := make([]dto.CourseListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.CourseListItem{
			ID:           row.ID,
			Title:        row.Title,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
			TotalLessons: row.TotalLessons,
		})
	}

	return &dto.PagedCoursesResponse{
		Items:      items,
		Page:       page,
		PageSize:   limit,
		TotalCount: total,
	}, nil
}

// GetCourseSummary aggregates a course with its active lesson count and the
// latest modification timestamp across the course and its active lessons.
func (s *CourseService) GetCourseSummary(ctx context.Context, id uuid.UUID) (*dto.CourseSummaryResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	totalLessons, err := s.lessonRepo.CountActive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error counting course lessons: %w", err)
	}

	lastModification := course.UpdatedAt
	lessonLast, err := s.lessonRepo.LastActivityAt(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error resolving last lesson activity: %w", err)
	}
	if lessonLast != nil && lessonLast.After(lastModification) {
		lastModification = *lessonLast
	}

	return &dto.CourseSummaryResponse{
		ID:               course.ID,
		Title:            course.Title,
		Status:           course.Status,
		TotalLessons:     totalLessons,
		LastModification: lastModification,
	}, nil
}
