package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

// TaskService is the canonical owner of tasks. It assigns ids and
// timestamps and keeps completion bookkeeping (recurring instances, XP,
// streak) on the backend side of the boundary.
type TaskService struct {
	taskRepo *repository.TaskRepository
	progress *ProgressService
	badges   *BadgeService
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewTaskService wires task persistence to progress tracking. badges may
// be nil, which skips badge checks after completions.
func NewTaskService(
	taskRepo *repository.TaskRepository,
	progress *ProgressService,
	badges *BadgeService,
	log logrus.FieldLogger,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		progress: progress,
		badges:   badges,
		log:      logger.OrDiscard(log),
		now:      time.Now,
	}
}

// Stored instants have millisecond precision, so everything handed out
// is truncated the same way.
func (s *TaskService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TaskService) ListTasks(ctx context.Context, filter *models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (models.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

func (s *TaskService) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	now := s.clock()
	task := models.Task{
		Id:          uuid.NewString(),
		Title:       in.Title,
		Description: nonEmpty(in.Description),
		DueDate:     normalizeTime(in.DueDate),
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		ProjectId:   nonEmpty(in.ProjectId),
		Recurrence: models.Recurrence{
			Type:     in.RecurrenceType,
			Interval: in.RecurrenceInterval,
			ParentID: nonEmpty(in.RecurrenceParentID),
		},
	}
	if task.Recurrence.Type == "" {
		task.Recurrence.Type = models.RecurrenceNone
	}
	if task.Recurrence.Interval < 1 {
		task.Recurrence.Interval = 1
	}
	if in.Completed != nil && *in.Completed {
		task.Completed = true
		task.CompletedAt = &now
	}
	if in.OrderIndex != nil {
		task.OrderIndex = *in.OrderIndex
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return models.Task{}, err
	}
	s.log.WithField("task_id", task.Id).Debug("task created")

	return s.taskRepo.GetByID(ctx, task.Id)
}

// UpdateTask applies the non-nil fields of patch. Changing Completed here
// maintains CompletedAt but does not touch XP; ToggleComplete does that.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch models.UpdateTaskInput) (models.Task, error) {
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	wasCompleted := task.Completed
	patch.Apply(&task)
	task.DueDate = normalizeTime(task.DueDate)

	now := s.clock()
	if task.Completed != wasCompleted {
		s.markCompletion(&task, now)
	}
	task.UpdatedAt = later(now, task.UpdatedAt)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return models.Task{}, err
	}
	return s.taskRepo.GetByID(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("task_id", id).Debug("task deleted")
	return nil
}

// ToggleComplete flips completion. Completing a recurring task also
// creates its next instance.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	now := s.clock()
	task.Completed = !task.Completed
	s.markCompletion(&task, now)
	task.UpdatedAt = later(now, task.UpdatedAt)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return models.Task{}, err
	}

	log := s.log.WithField("task_id", id)
	if task.Completed {
		if task.Recurrence.Repeats() {
			if next, err := s.createNextInstance(ctx, task); err != nil {
				log.WithError(err).Warn("failed to create recurring instance")
			} else {
				log.WithField("instance_id", next.Id).Debug("recurring instance created")
			}
		}
		if _, err := s.progress.RecordCompletion(ctx, task); err != nil {
			log.WithError(err).Warn("failed to record completion xp")
		} else if s.badges != nil {
			if _, err := s.badges.CheckBadges(ctx); err != nil {
				log.WithError(err).Warn("failed to check badges")
			}
		}
	} else {
		if err := s.progress.RevokeCompletion(ctx, id); err != nil {
			log.WithError(err).Warn("failed to revoke completion xp")
		}
	}

	return s.taskRepo.GetByID(ctx, id)
}

func (s *TaskService) createNextInstance(ctx context.Context, parent models.Task) (models.Task, error) {
	order := parent.OrderIndex
	parentID := parent.Id
	return s.CreateTask(ctx, models.CreateTaskInput{
		Title:              parent.Title,
		Description:        parent.Description,
		DueDate:            NextDueDate(parent.DueDate, parent.Recurrence),
		Priority:           parent.Priority,
		ProjectId:          parent.ProjectId,
		OrderIndex:         &order,
		RecurrenceType:     parent.Recurrence.Type,
		RecurrenceInterval: parent.Recurrence.Interval,
		RecurrenceParentID: &parentID,
	})
}

func (s *TaskService) markCompletion(task *models.Task, now time.Time) {
	if task.Completed {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC().Truncate(time.Millisecond)
	return &v
}
