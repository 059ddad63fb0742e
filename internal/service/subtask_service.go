package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

// SubtaskService manages checklist items. They are deleted together with
// their task.
type SubtaskService struct {
	subtaskRepo *repository.SubtaskRepository
	taskRepo    *repository.TaskRepository
}

func NewSubtaskService(
	subtaskRepo *repository.SubtaskRepository,
	taskRepo *repository.TaskRepository,
) *SubtaskService {
	return &SubtaskService{
		subtaskRepo: subtaskRepo,
		taskRepo:    taskRepo,
	}
}

func (s *SubtaskService) ListSubtasks(ctx context.Context, taskID string) ([]models.Subtask, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.subtaskRepo.ListByTask(ctx, taskID)
}

func (s *SubtaskService) AddSubtask(ctx context.Context, taskID string, in models.CreateSubtaskInput) (models.Subtask, error) {
	if err := in.Validate(); err != nil {
		return models.Subtask{}, err
	}
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return models.Subtask{}, err
	}

	subtask := models.Subtask{
		Id:     uuid.NewString(),
		TaskId: taskID,
		Title:  strings.TrimSpace(in.Title),
	}
	if err := s.subtaskRepo.Create(ctx, subtask); err != nil {
		return models.Subtask{}, err
	}
	return subtask, nil
}

func (s *SubtaskService) UpdateSubtask(ctx context.Context, id string, patch models.UpdateSubtaskInput) (models.Subtask, error) {
	if err := patch.Validate(); err != nil {
		return models.Subtask{}, err
	}
	subtask, err := s.subtaskRepo.GetByID(ctx, id)
	if err != nil {
		return models.Subtask{}, err
	}

	if patch.Title != nil {
		subtask.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Completed != nil {
		subtask.Completed = *patch.Completed
	}
	if err := s.subtaskRepo.Update(ctx, subtask); err != nil {
		return models.Subtask{}, err
	}
	return subtask, nil
}

func (s *SubtaskService) DeleteSubtask(ctx context.Context, id string) error {
	return s.subtaskRepo.Delete(ctx, id)
}
