package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

type TemplateService struct {
	templateRepo *repository.TemplateRepository
	tasks        *TaskService
	now          func() time.Time
}

func NewTemplateService(templateRepo *repository.TemplateRepository, tasks *TaskService) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		tasks:        tasks,
		now:          time.Now,
	}
}

func (s *TemplateService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]models.TaskTemplate, error) {
	return s.templateRepo.List(ctx)
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (models.TaskTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

func (s *TemplateService) CreateTemplate(ctx context.Context, in models.CreateTemplateInput) (models.TaskTemplate, error) {
	if err := in.Validate(); err != nil {
		return models.TaskTemplate{}, err
	}

	recurrence := in.RecurrenceType
	if recurrence == "" {
		recurrence = models.RecurrenceNone
	}
	now := s.clock()
	tmpl := models.TaskTemplate{
		Id:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Title:          in.Title,
		Description:    nonEmpty(in.Description),
		Priority:       in.Priority,
		ProjectId:      nonEmpty(in.ProjectId),
		RecurrenceType: recurrence,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.templateRepo.Create(ctx, tmpl); err != nil {
		return models.TaskTemplate{}, err
	}
	return tmpl, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, patch models.UpdateTemplateInput) (models.TaskTemplate, error) {
	if err := patch.Validate(); err != nil {
		return models.TaskTemplate{}, err
	}
	tmpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return models.TaskTemplate{}, err
	}

	patch.Apply(&tmpl)
	tmpl.UpdatedAt = later(s.clock(), tmpl.UpdatedAt)
	if err := s.templateRepo.Update(ctx, tmpl); err != nil {
		return models.TaskTemplate{}, err
	}
	return tmpl, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.templateRepo.Delete(ctx, id)
}

// CreateTaskFromTemplate creates a task carrying the template's values.
func (s *TemplateService) CreateTaskFromTemplate(ctx context.Context, id string, in models.UseTemplateInput) (models.Task, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	task, err := s.tasks.CreateTask(ctx, tmpl.TaskInput(in.DueDate))
	if err != nil {
		return models.Task{}, fmt.Errorf("create task from template %s: %w", id, err)
	}
	return task, nil
}
