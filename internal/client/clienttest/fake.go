// Package clienttest provides an in-memory task backend for tests.
package clienttest

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/TWRT/taskdesk/internal/client"
	"github.com/TWRT/taskdesk/internal/models"
)

const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpToggle = "toggle"
)

// Fake is a TaskBackend that keeps tasks in memory, hands out sequential
// ids and advances its clock by one second per write.
type Fake struct {
	mu       sync.Mutex
	tasks    []models.Task
	seq      int
	now      time.Time
	calls    map[string]int
	failNext map[string]error
}

var _ client.TaskBackend = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{
		now:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		calls:    make(map[string]int),
		failNext: make(map[string]error),
	}
}

// FailNext makes the next call of op return err.
func (f *Fake) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[op] = err
}

func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Snapshot returns the backend's tasks in creation order.
func (f *Fake) Snapshot() []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (f *Fake) begin(op string) error {
	f.calls[op]++
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

func (f *Fake) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *Fake) index(id string) int {
	return slices.IndexFunc(f.tasks, func(t models.Task) bool { return t.Id == id })
}

func (f *Fake) ListTasks(_ context.Context, _ *models.TaskFilter) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpList); err != nil {
		return nil, err
	}
	out := make([]models.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (f *Fake) GetTask(_ context.Context, id string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpGet); err != nil {
		return models.Task{}, err
	}
	i := f.index(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}
	return f.tasks[i].Clone(), nil
}

func (f *Fake) CreateTask(_ context.Context, in models.CreateTaskInput) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpCreate); err != nil {
		return models.Task{}, err
	}
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	f.seq++
	now := f.tick()
	task := models.Task{
		Id:        fmt.Sprintf("task-%d", f.seq),
		CreatedAt: now,
		UpdatedAt: now,
		Priority:  in.Priority,
		Recurrence: models.Recurrence{
			Type:     models.RecurrenceNone,
			Interval: 1,
		},
	}

	patch := in.Fields().UpdateInput()
	patch.Apply(&task)
	if task.Recurrence.Type == "" {
		task.Recurrence.Type = models.RecurrenceNone
	}
	if task.Recurrence.Interval < 1 {
		task.Recurrence.Interval = 1
	}
	if task.Completed {
		task.CompletedAt = &now
	}

	f.tasks = append(f.tasks, task)
	return task.Clone(), nil
}

func (f *Fake) UpdateTask(_ context.Context, id string, patch models.UpdateTaskInput) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpUpdate); err != nil {
		return models.Task{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}
	i := f.index(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}

	task := f.tasks[i]
	was := task.Completed
	patch.Apply(&task)
	now := f.tick()
	if task.Completed != was {
		setCompletion(&task, now)
	}
	task.UpdatedAt = now
	f.tasks[i] = task
	return task.Clone(), nil
}

func (f *Fake) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpDelete); err != nil {
		return err
	}
	i := f.index(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

func (f *Fake) ToggleComplete(_ context.Context, id string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpToggle); err != nil {
		return models.Task{}, err
	}
	i := f.index(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}

	task := f.tasks[i]
	task.Completed = !task.Completed
	now := f.tick()
	setCompletion(&task, now)
	task.UpdatedAt = now
	f.tasks[i] = task
	return task.Clone(), nil
}

func setCompletion(task *models.Task, now time.Time) {
	if task.Completed {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}
