package business

import (
	"errors"
	"fmt"

	"github.com/evcraddock/emprende-tacna/internal/platform"
)

var (
	// ErrNotFound is returned when a looked-up id has no record.
	ErrNotFound = errors.New("business not found")
	// ErrAlreadyVisited is returned when an id is already in the visited set.
	ErrAlreadyVisited = errors.New("business already visited")
	// ErrUnavailable is returned when the store could not read or persist
	// its collections.
	ErrUnavailable = platform.ErrUnavailable
)

// Field names reported by ValidationError.
const (
	FieldName        = "name"
	FieldType        = "type"
	FieldDescription = "description"
	FieldAddress     = "address"
)

// ValidationError identifies the first draft field that failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
