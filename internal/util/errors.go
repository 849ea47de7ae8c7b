package util

import "errors"

// ValidationError marks a caller mistake so the boundary can answer 400
// instead of logging a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(message string) error {
	return &ValidationError{Message: message}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrBlockNotFound      = errors.New("block not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrPermissionDenied   = errors.New("permission denied")
)
