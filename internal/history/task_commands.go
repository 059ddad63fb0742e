package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

var ErrNotExecuted = errors.New("command has not been executed")

func label(verb, title, id string) string {
	if title != "" {
		return fmt.Sprintf("%s %q", verb, title)
	}
	return fmt.Sprintf("%s %s", verb, id)
}

func missing(id string) error {
	return fmt.Errorf("task %s: %w", id, models.ErrNotFound)
}

// CreateTask adds a task. A redo creates the task under a fresh id; the
// store is told to rebind the previous id so later commands in the
// history still reach it.
type CreateTask struct {
	store  TaskStore
	input  models.CreateTaskInput
	taskID string
}

func NewCreateTask(store TaskStore, in models.CreateTaskInput) *CreateTask {
	return &CreateTask{store: store, input: in}
}

func (c *CreateTask) Execute(ctx context.Context) error {
	task, err := c.store.AddTask(ctx, c.input)
	if err != nil {
		return err
	}
	if c.taskID != "" {
		c.store.Rebind(c.taskID, task.Id)
	}
	c.taskID = task.Id
	return nil
}

func (c *CreateTask) Undo(ctx context.Context) error {
	if c.taskID == "" {
		return nil
	}
	return c.store.DeleteTask(ctx, c.TaskID())
}

func (c *CreateTask) Describe() string {
	return label("Create", c.input.Title, c.TaskID())
}

// TaskID is the id the created task currently lives under.
func (c *CreateTask) TaskID() string {
	if c.taskID == "" {
		return ""
	}
	return c.store.ResolveID(c.taskID)
}

// UpdateTask applies a patch. The prior field values are captured on the
// first successful execution and written back on undo.
type UpdateTask struct {
	store    TaskStore
	taskID   string
	patch    models.UpdateTaskInput
	snapshot *models.TaskFields
	title    string
}

func NewUpdateTask(store TaskStore, id string, patch models.UpdateTaskInput) *UpdateTask {
	return &UpdateTask{store: store, taskID: id, patch: patch}
}

func (c *UpdateTask) Execute(ctx context.Context) error {
	id := c.TaskID()
	snapshot := c.snapshot
	if snapshot == nil {
		task, ok := c.store.GetTaskByID(id)
		if !ok {
			return missing(id)
		}
		fields := task.Fields()
		snapshot = &fields
	}

	updated, err := c.store.UpdateTask(ctx, id, c.patch)
	if err != nil {
		return err
	}
	c.snapshot = snapshot
	c.title = updated.Title
	return nil
}

func (c *UpdateTask) Undo(ctx context.Context) error {
	if c.snapshot == nil {
		return ErrNotExecuted
	}
	restored, err := c.store.UpdateTask(ctx, c.TaskID(), c.snapshot.UpdateInput())
	if err != nil {
		return err
	}
	c.title = restored.Title
	return nil
}

func (c *UpdateTask) Describe() string {
	title := c.title
	if title == "" && c.snapshot != nil {
		title = c.snapshot.Title
	}
	return label("Update", title, c.TaskID())
}

func (c *UpdateTask) TaskID() string {
	return c.store.ResolveID(c.taskID)
}

// DeleteTask removes a task. Undo recreates it from the record captured on
// the first execution. The recreated task gets a new id, which the store
// rebinds the deleted id to.
type DeleteTask struct {
	store    TaskStore
	taskID   string
	snapshot *models.TaskFields
}

func NewDeleteTask(store TaskStore, id string) *DeleteTask {
	return &DeleteTask{store: store, taskID: id}
}

func (c *DeleteTask) Execute(ctx context.Context) error {
	id := c.TaskID()
	snapshot := c.snapshot
	if snapshot == nil {
		task, ok := c.store.GetTaskByID(id)
		if !ok {
			return missing(id)
		}
		fields := task.Fields()
		snapshot = &fields
	}

	if err := c.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.snapshot = snapshot
	return nil
}

func (c *DeleteTask) Undo(ctx context.Context) error {
	if c.snapshot == nil {
		return ErrNotExecuted
	}
	task, err := c.store.AddTask(ctx, c.snapshot.CreateInput())
	if err != nil {
		return err
	}
	c.store.Rebind(c.taskID, task.Id)
	c.taskID = task.Id
	return nil
}

func (c *DeleteTask) Describe() string {
	title := ""
	if c.snapshot != nil {
		title = c.snapshot.Title
	} else if task, ok := c.store.GetTaskByID(c.TaskID()); ok {
		title = task.Title
	}
	return label("Delete", title, c.TaskID())
}

func (c *DeleteTask) TaskID() string {
	return c.store.ResolveID(c.taskID)
}

// ToggleComplete flips completion; undo flips it back.
type ToggleComplete struct {
	store  TaskStore
	taskID string
	title  string
}

func NewToggleComplete(store TaskStore, id string) *ToggleComplete {
	return &ToggleComplete{store: store, taskID: id}
}

func (c *ToggleComplete) Execute(ctx context.Context) error {
	return c.toggle(ctx)
}

func (c *ToggleComplete) Undo(ctx context.Context) error {
	return c.toggle(ctx)
}

func (c *ToggleComplete) toggle(ctx context.Context) error {
	task, err := c.store.ToggleComplete(ctx, c.TaskID())
	if err != nil {
		return err
	}
	c.title = task.Title
	return nil
}

func (c *ToggleComplete) Describe() string {
	title := c.title
	if title == "" {
		if task, ok := c.store.GetTaskByID(c.TaskID()); ok {
			title = task.Title
		}
	}
	return label("Toggle", title, c.TaskID())
}

func (c *ToggleComplete) TaskID() string {
	return c.store.ResolveID(c.taskID)
}
