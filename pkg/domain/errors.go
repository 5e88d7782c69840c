package domain

import "errors"

// ErrInvalidArgument is returned for malformed caller input, before any I/O is made
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInternal is returned when a relay run fails as a whole, not attributable to a single item
var ErrInternal = errors.New("internal error")

// ValidationError is an ErrInvalidArgument with a message safe to show to the caller
type ValidationError struct {
	Message string
}

// NewValidationError makes a validation error with the given message
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrInvalidArgument) true for validation errors
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidArgument }
