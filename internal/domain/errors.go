package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrValidation       = errors.New("validation error")
	ErrTransport        = errors.New("transport failure")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnknownTable     = errors.New("unknown table")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// IsTransport reports whether err aborts a run. Store-unavailable and
// unknown-table errors count: nothing downstream can recover from them.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrUnknownTable)
}
