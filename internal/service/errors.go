package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotEnrolled is returned when an operation requires an enrollment
	// the user does not have.
	ErrNotEnrolled = errors.New("user is not enrolled in this course")
	// ErrAlreadyEnrolled is returned when an enrollment already exists for
	// the (user, course) pair.
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
	// ErrPaymentRequired is returned when the free enrollment path is
	// attempted on a paid course.
	ErrPaymentRequired = errors.New("this course requires payment")
	// ErrPaymentUnavailable is returned when no payment provider is configured.
	ErrPaymentUnavailable = errors.New("payments are not configured")
	// ErrPaymentInitiation wraps provider failures while opening a payment session.
	ErrPaymentInitiation = errors.New("failed to initiate payment")
	// ErrCourseNotCompleted is returned when a certificate is requested
	// before the enrollment reaches completed status.
	ErrCourseNotCompleted = errors.New("course is not completed")
	// ErrAlreadyIssued is returned when a certificate already exists for
	// the (user, course) pair.
	ErrAlreadyIssued = errors.New("certificate already issued for this course")
	// ErrAlreadyReviewed is returned when the user already reviewed the course.
	ErrAlreadyReviewed = errors.New("user already reviewed this course")
)

var errValidation = errors.New("service: validation error")

type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func (e *validationError) Unwrap() error {
	return errValidation
}

func newValidationError(format string, args ...interface{}) error {
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		message = "invalid input"
	}
	return &validationError{message: message}
}

// IsValidationError reports whether the provided error indicates invalid user input.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, errValidation)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicateKeyError detects unique constraint violations surfaced by the
// database when two requests race past the existence check.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "duplicate key") || strings.Contains(message, "23505")
}
