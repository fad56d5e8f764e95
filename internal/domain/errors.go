package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write would break a uniqueness or cardinality rule
	ErrConflict = errors.New("conflict occurred")

	// ErrInvalidStatus is returned when a moderation target is not approved or rejected.
	// It wraps ErrInvalidInput.
	ErrInvalidStatus = fmt.Errorf("%w: status must be approved or rejected", ErrInvalidInput)

	// ErrMissingParameter is returned when a required query parameter is absent
	ErrMissingParameter = errors.New("missing parameter")

	// ErrUnauthorized is returned when credentials are missing or invalid
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries per-field messages. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
