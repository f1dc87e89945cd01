package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson represents a single lesson within a course.
//
// Order is a positive integer giving the lesson's position within its course.
// Among non-deleted lessons of one course, order values are unique; the
// database enforces this with a partial unique index on (course_id, "order").
// Deleting a lesson leaves a gap in the sequence; orders are never compacted.
type Lesson struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CourseID  uuid.UUID `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Order     int       `json:"order" db:"order"`
	IsDeleted bool      `json:"-" db:"is_deleted"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
