package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/deniz/coursehub/internal/app/models"
)

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Title string `json:"title" binding:"required,max=200" example:"Go from Zero"`
}

// UpdateCourseRequest represents course update data
type UpdateCourseRequest struct {
	Title string `json:"title" binding:"required,max=200" example:"Go from Zero, 2nd edition"`
}

// CreatedResponse carries the identifier of a newly created resource
type CreatedResponse struct {
	ID uuid.UUID `json:"id" example:"7b7c3559-01a7-4f9a-9b2c-2b1f7a0a2a4e"`
}

// CourseListItem represents one course row in search results
type CourseListItem struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Status       models.CourseStatus `json:"status" example:"Draft"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	TotalLessons int                 `json:"totalLessons"`
}

// PagedCoursesResponse is a page of course search results plus the total
// matching count, so callers can compute page counts themselves.
type PagedCoursesResponse struct {
	Items      []CourseListItem `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalCount int              `json:"totalCount"`
}

// CourseSummaryResponse aggregates a course with lesson-derived fields.
// LastModification is the max updatedAt across the course row and its
// non-deleted lessons.
type CourseSummaryResponse struct {
	ID               uuid.UUID           `json:"id"`
	Title            string              `json:"title"`
	Status           models.CourseStatus `json:"status"`
	TotalLessons     int                 `json:"totalLessons"`
	LastModification time.Time           `json:"lastModification"`
}
