package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by stores when no document matches the lookup.
var ErrNotFound = errors.New("document not found")

// FieldError describes a single rejected field.
type FieldError struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ValidationError reports input rejected before it was written.
type ValidationError struct {
	Model  string
	Fields []FieldError
}

func NewValidationError(model string, fields ...FieldError) *ValidationError {
	return &ValidationError{Model: model, Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Path, f.Message))
	}
	return fmt.Sprintf("%s validation failed: %s", e.Model, strings.Join(parts, ", "))
}
