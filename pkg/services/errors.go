package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by loaders and the numeric core.
var (
	ErrValidation       = errors.New("validation error")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDegenerateFit    = errors.New("degenerate fit")
	ErrInvalidHorizon   = errors.New("invalid forecast horizon")
	ErrMissingReference = errors.New("missing reference")
	ErrModelNotFound    = errors.New("component price model not found")
)

// ValidationError describes a malformed input record or parameter.
// Row is 1-based (header = row 1) and zero when not row-bound.
type ValidationError struct {
	Source string
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("%s: row %d: %s %s", e.Source, e.Row, e.Field, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: %s %s", e.Source, e.Field, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(source string, row int, field, reason string) error {
	return &ValidationError{Source: source, Row: row, Field: field, Reason: reason}
}
