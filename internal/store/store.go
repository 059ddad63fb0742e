// Package store keeps an in-memory mirror of the backend's task
// collection. Every mutation is confirmed by the backend before the
// mirror changes.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/client"
	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/models"
)

type TaskStore struct {
	backend client.TaskBackend
	log     logrus.FieldLogger

	mu      sync.RWMutex
	tasks   []models.Task
	err     error
	aliases map[string]string
}

// New returns an empty store over backend. A nil backend is treated as
// unavailable: reads come back empty and writes fail.
func New(backend client.TaskBackend, log logrus.FieldLogger) *TaskStore {
	if backend == nil {
		backend = client.Unavailable{}
	}
	return &TaskStore{
		backend: backend,
		log:     logger.OrDiscard(log),
		tasks:   []models.Task{},
		aliases: make(map[string]string),
	}
}

// SyncTasks replaces the local collection with the backend's. On failure
// the collection is left as it was and the error is kept in Err.
func (s *TaskStore) SyncTasks(ctx context.Context) error {
	tasks, err := s.backend.ListTasks(ctx, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err
		s.log.WithError(err).Warn("task sync failed")
		return err
	}

	s.tasks = make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		s.tasks = append(s.tasks, t.Clone())
	}
	s.err = nil
	return nil
}

// AddTask creates a task on the backend and appends the returned record.
func (s *TaskStore) AddTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	task, err := s.backend.CreateTask(ctx, in)
	if err != nil {
		s.log.WithError(err).Warn("create task failed")
		return models.Task{}, err
	}

	s.put(task)
	return task.Clone(), nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, id string, patch models.UpdateTaskInput) (models.Task, error) {
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	task, err := s.backend.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.WithError(err).WithField("task_id", id).Warn("update task failed")
		return models.Task{}, err
	}

	s.put(task)
	return task.Clone(), nil
}

// ToggleComplete flips completion on the backend. Completing a recurring
// task also pulls in the next instance the backend generated; if that
// fetch fails the instance shows up at the next SyncTasks.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) (models.Task, error) {
	task, err := s.backend.ToggleComplete(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("task_id", id).Warn("toggle task failed")
		return models.Task{}, err
	}

	s.put(task)
	if task.Completed && task.Recurrence.Repeats() {
		s.pullInstances(ctx, task.Id)
	}
	return task.Clone(), nil
}

func (s *TaskStore) pullInstances(ctx context.Context, parentID string) {
	pending := false
	tasks, err := s.backend.ListTasks(ctx, &models.TaskFilter{Completed: &pending})
	if err != nil {
		s.log.WithError(err).WithField("task_id", parentID).Warn("fetch recurring instance failed")
		return
	}
	for _, t := range tasks {
		if t.Recurrence.ParentID != nil && *t.Recurrence.ParentID == parentID {
			s.put(t)
		}
	}
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		s.log.WithError(err).WithField("task_id", id).Warn("delete task failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.Id == id })
	return nil
}

// GetTaskByID looks only at the local collection.
func (s *TaskStore) GetTaskByID(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

// Tasks returns a copy of the collection in its current order.
func (s *TaskStore) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Err is the error of the last failed SyncTasks, cleared by a successful one.
func (s *TaskStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Rebind records that the task known as oldID was recreated as newID.
// Undo and redo recreate tasks under fresh ids; commands still holding an
// older id reach the live task through ResolveID.
func (s *TaskStore) Rebind(oldID, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldID = s.resolveLocked(oldID)
	if oldID == "" || oldID == newID {
		return
	}
	s.aliases[oldID] = newID
}

// ResolveID follows rebinds from id to the id the task lives under now.
func (s *TaskStore) ResolveID(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveLocked(id)
}

func (s *TaskStore) resolveLocked(id string) string {
	for range len(s.aliases) {
		next, ok := s.aliases[id]
		if !ok {
			break
		}
		id = next
	}
	return id
}

// put replaces the entry with the same id, or appends.
func (s *TaskStore) put(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(task.Id); i >= 0 {
		s.tasks[i] = task.Clone()
		return
	}
	s.tasks = append(s.tasks, task.Clone())
}

func (s *TaskStore) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.Id == id })
}
