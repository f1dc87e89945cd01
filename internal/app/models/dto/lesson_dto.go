package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateLessonRequest represents lesson creation data
type CreateLessonRequest struct {
	Title string `json:"title" binding:"required,max=200" example:"Introduction"`
	Order int    `json:"order" binding:"required,min=1" example:"1"`
}

// UpdateLessonRequest represents lesson update data
type UpdateLessonRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Order int    `json:"order" binding:"required,min=1"`
}

// LessonListItem represents one lesson in a course's lesson list
type LessonListItem struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"courseId"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
