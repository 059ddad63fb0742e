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

type TagService struct {
	tagRepo  *repository.TagRepository
	taskRepo *repository.TaskRepository
	now      func() time.Time
}

func NewTagService(tagRepo *repository.TagRepository, taskRepo *repository.TaskRepository) *TagService {
	return &TagService{
		tagRepo:  tagRepo,
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *TagService) CreateTag(ctx context.Context, in models.CreateTagInput) (models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Tag{}, &models.ValidationError{Field: "name", Message: "must not be empty"}
	}

	exists, err := s.tagRepo.ExistsByName(ctx, name)
	if err != nil {
		return models.Tag{}, err
	}
	if exists {
		return models.Tag{}, &models.ValidationError{Field: "name", Message: fmt.Sprintf("tag %q already exists", name)}
	}

	tag := models.Tag{
		Id:        uuid.NewString(),
		Name:      name,
		Color:     nonEmpty(in.Color),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.tagRepo.Create(ctx, &tag); err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, id string) error {
	return s.tagRepo.Delete(ctx, id)
}

func (s *TagService) ListTaskTags(ctx context.Context, taskID string) ([]models.Tag, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.tagRepo.ListForTask(ctx, taskID)
}

func (s *TagService) AddTagToTask(ctx context.Context, taskID, tagID string) error {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return err
	}
	return s.tagRepo.AddToTask(ctx, taskID, tagID)
}

func (s *TagService) RemoveTagFromTask(ctx context.Context, taskID, tagID string) error {
	return s.tagRepo.RemoveFromTask(ctx, taskID, tagID)
}
