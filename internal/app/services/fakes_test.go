package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/app/repositories"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
)

// memStore is a shared in-memory backing store for the fake repositories.
// It mirrors the database constraints the services rely on, most importantly
// the order uniqueness among active lessons of a course.
type memStore struct {
	courses map[uuid.UUID]models.Course
	lessons map[uuid.UUID]models.Lesson
	users   map[uuid.UUID]models.User

	// lessonWrites records every durable lesson write in order, so tests can
	// assert on the exact persist sequence of multi-step operations.
	lessonWrites []models.Lesson
}

func newMemStore() *memStore {
	return &memStore{
		courses: make(map[uuid.UUID]models.Course),
		lessons: make(map[uuid.UUID]models.Lesson),
		users:   make(map[uuid.UUID]models.User),
	}
}

// activeOrderTaken emulates the partial unique index on (course_id, "order").
func (m *memStore) activeOrderTaken(courseID uuid.UUID, order int, excludeID uuid.UUID) bool {
	for _, lesson := range m.lessons {
		if lesson.CourseID == courseID && lesson.Order == order && !lesson.IsDeleted && lesson.ID != excludeID {
			return true
		}
	}
	return false
}

type fakeCourseRepo struct {
	store *memStore
}

var _ repositories.ICourseRepository = (*fakeCourseRepo)(nil)

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.store.courses[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	course, ok := r.store.courses[id]
	if !ok || course.IsDeleted {
		return nil, apperrors.ErrCourseNotFound
	}
	copy := course
	return &copy, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := r.store.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	r.store.courses[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	course, ok := r.store.courses[id]
	return ok && !course.IsDeleted, nil
}

func (r *fakeCourseRepo) Search(_ context.Context, status *models.CourseStatus, offset uint64, limit int) ([]repositories.CourseRow, int, error) {
	var matched []models.Course
	for _, course := range r.store.courses {
		if course.IsDeleted {
			continue
		}
		if status != nil && course.Status != *status {
			continue
		}
		matched = append(matched, course)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)

	if int(offset) >= total {
		return []repositories.CourseRow{}, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}

	rows := make([]repositories.CourseRow, 0, len(matched))
	for _, course := range matched {
		count := 0
		for _, lesson := range r.store.lessons {
			if lesson.CourseID == course.ID && !lesson.IsDeleted {
				count++
			}
		}
		rows = append(rows, repositories.CourseRow{Course: course, TotalLessons: count})
	}

	return rows, total, nil
}

type fakeLessonRepo struct {
	store *memStore
}

var _ repositories.ILessonRepository = (*fakeLessonRepo)(nil)

// swapSentinel mirrors the reserved parking order the real repository uses
// mid-swap. It sits strictly below the minimum legal order of 1.
const swapSentinel = -999999

// persist lands a lesson write, checking the emulated partial unique index
// first just like the database would on every statement. All durable lesson
// writes go through here and are journaled on the store.
func (r *fakeLessonRepo) persist(lesson models.Lesson) error {
	if !lesson.IsDeleted && r.store.activeOrderTaken(lesson.CourseID, lesson.Order, lesson.ID) {
		return apperrors.ErrDuplicateOrder
	}
	r.store.lessons[lesson.ID] = lesson
	r.store.lessonWrites = append(r.store.lessonWrites, lesson)
	return nil
}

func (r *fakeLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	return r.persist(*lesson)
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	lesson, ok := r.store.lessons[id]
	if !ok || lesson.IsDeleted {
		return nil, apperrors.ErrLessonNotFound
	}
	copy := lesson
	return &copy, nil
}

func (r *fakeLessonRepo) Update(_ context.Context, lesson *models.Lesson) error {
	if _, ok := r.store.lessons[lesson.ID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	return r.persist(*lesson)
}

func (r *fakeLessonRepo) ListByCourse(_ context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	for _, lesson := range r.store.lessons {
		if lesson.CourseID == courseID && !lesson.IsDeleted {
			lessons = append(lessons, lesson)
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
	return lessons, nil
}

func (r *fakeLessonRepo) OrderTaken(_ context.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	return r.store.activeOrderTaken(courseID, order, excludeID), nil
}

func (r *fakeLessonRepo) FindByOrder(_ context.Context, courseID uuid.UUID, order int) (*models.Lesson, error) {
	// Soft-deleted rows are included, matching the real query.
	for _, lesson := range r.store.lessons {
		if lesson.CourseID == courseID && lesson.Order == order {
			copy := lesson
			return &copy, nil
		}
	}
	return nil, apperrors.ErrLessonNotFound
}

func (r *fakeLessonRepo) CountActive(_ context.Context, courseID uuid.UUID) (int, error) {
	count := 0
	for _, lesson := range r.store.lessons {
		if lesson.CourseID == courseID && !lesson.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeLessonRepo) LastActivityAt(_ context.Context, courseID uuid.UUID) (*time.Time, error) {
	var last *time.Time
	for _, lesson := range r.store.lessons {
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

// SwapOrders runs the same three-step protocol as the real repository: park
// the first lesson on the sentinel, move the second into its old slot, then
// land the first on the freed slot. Each step persists through the uniqueness
// check, so a naive two-step swap would trip it here the way it would trip
// the partial unique index.
func (r *fakeLessonRepo) SwapOrders(_ context.Context, aID, bID uuid.UUID, now time.Time) error {
	a, okA := r.store.lessons[aID]
	b, okB := r.store.lessons[bID]
	if !okA || !okB {
		return apperrors.ErrLessonNotFound
	}

	orderA, orderB := a.Order, b.Order

	a.Order = swapSentinel
	a.UpdatedAt = now
	if err := r.persist(a); err != nil {
		return err
	}

	b.Order = orderA
	b.UpdatedAt = now
	if err := r.persist(b); err != nil {
		return err
	}

	a.Order = orderB
	if err := r.persist(a); err != nil {
		return err
	}

	return nil
}

type fakeUserRepo struct {
	store *memStore
}

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			copy := user
			return &copy, nil
		}
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}
