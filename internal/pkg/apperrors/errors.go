package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Session errors
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenRevoked    = errors.New("token revoked")
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrServiceUnavailable marks failures of a backing service (database, redis)
	ErrServiceUnavailable = errors.New("service unavailable")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound        = fmt.Errorf("student: %w", ErrResourceNotFound)
	ErrStudentIDAlreadyExists = fmt.Errorf("student ID: %w", ErrResourceAlreadyExists)
	ErrEmailAlreadyExists     = fmt.Errorf("student email: %w", ErrResourceAlreadyExists)
)

// Course errors
var (
	ErrCourseNotFound          = fmt.Errorf("course: %w", ErrResourceNotFound)
	ErrCourseCodeAlreadyExists = fmt.Errorf("course code: %w", ErrResourceAlreadyExists)
)

// ErrGradeAlreadyExists is returned when the student already has a grade for the course
var ErrGradeAlreadyExists = fmt.Errorf("grade for student and course: %w", ErrResourceAlreadyExists)

// User errors
var (
	ErrUserNotFound          = fmt.Errorf("user: %w", ErrResourceNotFound)
	ErrUsernameAlreadyExists = fmt.Errorf("username: %w", ErrResourceAlreadyExists)
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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
