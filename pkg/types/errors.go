package types

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation error")

// ValidationError reports a violated structural bound: an oversized leaf set, an out-of-range
// proof index or a transaction shape that exceeds its input/output limits.
type ValidationError struct {
	// Field names the bound that was violated, e.g. "leaves", "index", "inputs", "outputs"
	Field string

	// Limit is the maximum (or exclusive upper bound) that applies to Field
	Limit int

	// Actual is the offending value
	Actual int

	Reason string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field string, limit, actual int, reason string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Limit:  limit,
		Actual: actual,
		Reason: reason,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (limit %d, got %d)", e.Field, e.Reason, e.Limit, e.Actual)
}

// Is lets callers match any validation failure with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
