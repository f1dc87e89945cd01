package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Course errors
var (
	ErrCourseNotFound = &CustomError{Err: ErrResourceNotFound, Message: "Course not found."}
	// ErrCourseHasNoActiveLessons guards the Draft -> Published transition.
	ErrCourseHasNoActiveLessons = &CustomError{Err: ErrConflict, Message: "Cannot publish a course without at least one active lesson."}
)

// Lesson errors
var (
	ErrLessonNotFound = &CustomError{Err: ErrResourceNotFound, Message: "Lesson not found."}
	// ErrDuplicateOrder is returned when a lesson order collides with another
	// active lesson of the same course.
	ErrDuplicateOrder = &CustomError{Err: ErrConflict, Message: "Order must be unique within the course."}
)

// User errors
var (
	ErrEmailAlreadyExists = &CustomError{Err: ErrConflict, Message: "Email already registered."}
)

// NewValidationError creates a new custom error for validation failures with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
