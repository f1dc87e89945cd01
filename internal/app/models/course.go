package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CourseStatus represents the publication state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "Draft"
	CourseStatusPublished CourseStatus = "Published"
)

// ParseCourseStatus parses a status from its name or its numeric wire value
// (0 = Draft, 1 = Published). Matching is case-insensitive.
func ParseCourseStatus(s string) (CourseStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft", "0":
		return CourseStatusDraft, true
	case "published", "1":
		return CourseStatusPublished, true
	default:
		return "", false
	}
}

// Course represents a course owning an ordered set of lessons.
// Courses are soft-deleted; rows stay in storage with is_deleted set.
type Course struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Title     string       `json:"title" db:"title"`
	Status    CourseStatus `json:"status" db:"status"`
	IsDeleted bool         `json:"-" db:"is_deleted"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}
