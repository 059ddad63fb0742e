// Package history implements reversible task commands and a linear
// undo/redo history over them.
package history

import (
	"context"

	"github.com/TWRT/taskdesk/internal/models"
)

// Command is one user-visible, reversible action.
type Command interface {
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
	Describe() string
}

// TaskStore is the subset of the task store that commands drive.
type TaskStore interface {
	AddTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.UpdateTaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleComplete(ctx context.Context, id string) (models.Task, error)
	GetTaskByID(id string) (models.Task, bool)
	ResolveID(id string) string
	Rebind(oldID, newID string)
}
