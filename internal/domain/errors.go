package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyEmail is returned when an email address is required but missing.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidAmount is returned for non-positive monetary amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidRole is returned for an unknown user role.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidStatus is returned for an unknown or disallowed status value.
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. err is the sentinel
// it wraps, ErrValidation when nil.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation for every ValidationError so callers can classify
// field errors without knowing the specific sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
