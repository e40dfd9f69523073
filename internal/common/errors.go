package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// Tenant / collaborator lookups
	ErrFarmNotFound   = fmt.Errorf("farm: %w", ErrNotFound)
	ErrAnimalNotFound = fmt.Errorf("animal: %w", ErrNotFound)
	ErrSeasonNotFound = fmt.Errorf("breeding season: %w", ErrNotFound)
)

// ValidationError reports a rejected input field. It matches ErrInvalidInput
// with errors.Is so handlers can map every validation failure to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
