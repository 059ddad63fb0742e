package models

import "strings"

type Subtask struct {
	Id        string `json:"id"`
	TaskId    string `json:"task_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type CreateSubtaskInput struct {
	Title string `json:"title"`
}

func (in CreateSubtaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	return nil
}

type UpdateSubtaskInput struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (in UpdateSubtaskInput) Validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	return nil
}
