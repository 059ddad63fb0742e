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

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	now         func() time.Time
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	taskRepo *repository.TaskRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		now:         time.Now,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Project{}, &models.ValidationError{Field: "name", Message: "must not be empty"}
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	project := models.Project{
		Id:        uuid.NewString(),
		Name:      name,
		Color:     nonEmpty(in.Color),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projectRepo.Create(ctx, &project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// DeleteProject removes the project and detaches its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.taskRepo.ClearProject(ctx, id, s.now().UTC()); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, id)
}
