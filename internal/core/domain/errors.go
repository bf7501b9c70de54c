package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrModelLoad         = errors.New("model load failure")
	ErrDimensionMismatch = errors.New("encoding dimension mismatch")
	ErrReportNotFound    = errors.New("report not found")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// FieldError names the application field that failed to parse.
type FieldError struct {
	Field string
	Value string
	Msg   string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Msg, e.Value)
}

// InvalidField builds an ErrInvalidInput error carrying a FieldError.
func InvalidField(operation, field, value, msg string) error {
	return WrapError(ErrInvalidInput, operation, &FieldError{Field: field, Value: value, Msg: msg})
}
