package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskTemplate holds the values copied into tasks created from it.
type TaskTemplate struct {
	Id             string         `json:"id"`
	Name           string         `json:"name"`
	Title          string         `json:"title"`
	Description    *string        `json:"description,omitempty"`
	Priority       Priority       `json:"priority"`
	ProjectId      *string        `json:"project_id,omitempty"`
	RecurrenceType RecurrenceType `json:"recurrence_type"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CreateTemplateInput struct {
	Name           string         `json:"name"`
	Title          string         `json:"title"`
	Description    *string        `json:"description,omitempty"`
	Priority       Priority       `json:"priority"`
	ProjectId      *string        `json:"project_id,omitempty"`
	RecurrenceType RecurrenceType `json:"recurrence_type,omitempty"`
}

func (in CreateTemplateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", in.Priority)}
	}
	if in.RecurrenceType != "" && !in.RecurrenceType.Valid() {
		return &ValidationError{Field: "recurrence_type", Message: fmt.Sprintf("unknown value %q", in.RecurrenceType)}
	}
	return nil
}

// UpdateTemplateInput follows the UpdateTaskInput conventions: nil leaves
// a field alone and "" clears an optional string.
type UpdateTemplateInput struct {
	Name           *string         `json:"name,omitempty"`
	Title          *string         `json:"title,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Priority       *Priority       `json:"priority,omitempty"`
	ProjectId      *string         `json:"project_id,omitempty"`
	RecurrenceType *RecurrenceType `json:"recurrence_type,omitempty"`
}

func (in UpdateTemplateInput) Validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", *in.Priority)}
	}
	if in.RecurrenceType != nil && !in.RecurrenceType.Valid() {
		return &ValidationError{Field: "recurrence_type", Message: fmt.Sprintf("unknown value %q", *in.RecurrenceType)}
	}
	return nil
}

func (in UpdateTemplateInput) Apply(t *TaskTemplate) {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = emptyToNil(*in.Description)
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.ProjectId != nil {
		t.ProjectId = emptyToNil(*in.ProjectId)
	}
	if in.RecurrenceType != nil {
		t.RecurrenceType = *in.RecurrenceType
	}
}

// TaskInput builds the creation payload for a task based on t.
func (t TaskTemplate) TaskInput(due *time.Time) CreateTaskInput {
	in := CreateTaskInput{
		Title:          t.Title,
		Description:    cloneString(t.Description),
		DueDate:        cloneTime(due),
		Priority:       t.Priority,
		ProjectId:      cloneString(t.ProjectId),
		RecurrenceType: t.RecurrenceType,
	}
	if (Recurrence{Type: t.RecurrenceType}).Repeats() {
		in.RecurrenceInterval = 1
	}
	return in
}

type UseTemplateInput struct {
	DueDate *time.Time `json:"due_date,omitempty"`
}
