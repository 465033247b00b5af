package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every ValidationError so callers can test with
// errors.Is without caring which field failed.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing or invalid field on create.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
