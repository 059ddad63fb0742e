package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend service unavailable")
)

// ValidationError is returned for input rejected before any persistence
// call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func (in CreateTaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if in.Priority == "" {
		return &ValidationError{Field: "priority", Message: "is required"}
	}
	if !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", in.Priority)}
	}
	if in.RecurrenceType != "" && !in.RecurrenceType.Valid() {
		return &ValidationError{Field: "recurrence_type", Message: fmt.Sprintf("unknown value %q", in.RecurrenceType)}
	}
	if in.RecurrenceInterval < 0 {
		return &ValidationError{Field: "recurrence_interval", Message: "must be positive"}
	}
	if in.OrderIndex != nil && *in.OrderIndex < 0 {
		return &ValidationError{Field: "order_index", Message: "must not be negative"}
	}
	return nil
}

func (in UpdateTaskInput) Validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", *in.Priority)}
	}
	if in.RecurrenceType != nil && !in.RecurrenceType.Valid() {
		return &ValidationError{Field: "recurrence_type", Message: fmt.Sprintf("unknown value %q", *in.RecurrenceType)}
	}
	if in.RecurrenceInterval != nil && *in.RecurrenceInterval < 1 {
		return &ValidationError{Field: "recurrence_interval", Message: "must be positive"}
	}
	if in.OrderIndex != nil && *in.OrderIndex < 0 {
		return &ValidationError{Field: "order_index", Message: "must not be negative"}
	}
	return nil
}
