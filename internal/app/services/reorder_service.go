package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/coursehub/internal/app/repositories"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/helpers"
	"github.com/deniz/coursehub/internal/pkg/logger"
)

// ReorderService moves lessons one slot at a time within their course.
//
// A move swaps the lesson's order with whatever lesson holds the adjacent
// slot. When the adjacent slot is empty (orders may have gaps after deletes)
// the move is a no-op rather than an error, as is moving the first lesson up.
type ReorderService struct {
	lessonRepo repositories.ILessonRepository
	now        func() time.Time
}

// NewReorderService creates a new reorder service instance
func NewReorderService(lessonRepo repositories.ILessonRepository) *ReorderService {
	return &ReorderService{
		lessonRepo: lessonRepo,
		now:        helpers.UTCNow,
	}
}

// WithClock overrides the service clock, for tests
func (s *ReorderService) WithClock(now func() time.Time) *ReorderService {
	s.now = now
	return s
}

// MoveUp swaps a lesson with the one directly above it
func (s *ReorderService) MoveUp(ctx context.Context, lessonID uuid.UUID) error {
	return s.move(ctx, lessonID, -1)
}

// MoveDown swaps a lesson with the one directly below it
func (s *ReorderService) MoveDown(ctx context.Context, lessonID uuid.UUID) error {
	return s.move(ctx, lessonID, +1)
}

func (s *ReorderService) move(ctx context.Context, lessonID uuid.UUID, direction int) error {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}

	targetOrder := lesson.Order + direction
	if targetOrder < 1 {
		// Already at the top.
		return nil
	}

	// The neighbor lookup intentionally includes soft-deleted lessons: a
	// deleted lesson still occupying the adjacent slot gets swapped with,
	// which silently renumbers it. Matches the historical behavior callers
	// depend on; see the reorder tests.
	neighbor, err := s.lessonRepo.FindByOrder(ctx, lesson.CourseID, targetOrder)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			// Adjacent slot is a gap; nothing to swap with.
			return nil
		}
		return fmt.Errorf("error resolving adjacent lesson: %w", err)
	}

	if err := s.lessonRepo.SwapOrders(ctx, lesson.ID, neighbor.ID, s.now()); err != nil {
		return err
	}

	logger.Debug().
		Str("lessonID", lesson.ID.String()).
		Str("neighborID", neighbor.ID.String()).
		Int("fromOrder", lesson.Order).
		Int("toOrder", targetOrder).
		Msg("Swapped lesson orders")

	return nil
}
