package domain

import (
	"errors"
	"fmt"
)

// Common domain errors.
var (
	// ErrInvalidConfiguration indicates that validator or guard configuration
	// is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedShape indicates a value that is neither a string nor a
	// sequence of strings. Hosts must coerce values before validation.
	ErrUnsupportedShape = errors.New("unsupported value shape")

	// ErrLengthOutOfBounds is the sentinel matched by every *LengthError.
	ErrLengthOutOfBounds = errors.New("length out of bounds")
)

// LengthError reports a value whose length fell outside its Bounds.
// It is produced by hosts enacting the exception policy.
type LengthError struct {
	// Field is the output field that failed, if known.
	Field string

	// Violation is TooShort or TooLong.
	Violation Violation

	// Length is the measured length of the offending value.
	Length int

	// Bounds is the window the value was checked against.
	Bounds Bounds

	// FixValue is the correction the validator computed.
	FixValue Value
}

// Error implements the error interface for LengthError.
func (e *LengthError) Error() string {
	msg := fmt.Sprintf("length out of bounds: violation=%s, length=%d, bounds=%s", e.Violation, e.Length, e.Bounds)
	if e.Field != "" {
		msg = fmt.Sprintf("field %s: %s", e.Field, msg)
	}
	return msg
}

// Is makes errors.Is(err, ErrLengthOutOfBounds) match any *LengthError.
func (e *LengthError) Is(target error) bool { return target == ErrLengthOutOfBounds }

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// Unwrap lets errors.Is(err, ErrInvalidConfiguration) match.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
