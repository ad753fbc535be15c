package domain

import "errors"

var (
	// ErrValidation signals input that fails declared type or range constraints.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID signals an identifier that cannot be parsed into the store encoding.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals that the backing store is unreachable or erroring.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError names the offending field of a rejected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
