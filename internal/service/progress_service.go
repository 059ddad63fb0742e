package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

type ProgressService struct {
	progressRepo *repository.ProgressRepository
	xpByPriority map[models.Priority]int
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewProgressService builds the gamification service. xpByPriority entries
// override the defaults (low 10, medium 25, high 50).
func NewProgressService(
	progressRepo *repository.ProgressRepository,
	xpByPriority map[string]int,
	log logrus.FieldLogger,
) *ProgressService {
	xp := make(map[models.Priority]int, len(defaultXPByPriority))
	for p, v := range defaultXPByPriority {
		xp[p] = v
	}
	for p, v := range xpByPriority {
		xp[models.Priority(p)] = v
	}

	return &ProgressService{
		progressRepo: progressRepo,
		xpByPriority: xp,
		log:          logger.OrDiscard(log),
		now:          time.Now,
	}
}

func (s *ProgressService) XPFor(priority models.Priority) int {
	if v, ok := s.xpByPriority[priority]; ok {
		return v
	}
	return fallbackXP
}

func (s *ProgressService) GetProgress(ctx context.Context) (models.UserProgress, error) {
	p, err := s.load(ctx)
	if err != nil {
		return models.UserProgress{}, err
	}
	return withDerived(p), nil
}

func (s *ProgressService) load(ctx context.Context) (models.UserProgress, error) {
	p, err := s.progressRepo.Get(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.UserProgress{}, fmt.Errorf("load progress: %w", err)
	}

	now := s.now().UTC()
	p = models.UserProgress{
		Id:           repository.DefaultProgressID,
		CurrentLevel: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.progressRepo.Save(ctx, p); err != nil {
		return models.UserProgress{}, fmt.Errorf("create progress: %w", err)
	}
	return p, nil
}

func (s *ProgressService) GrantXP(ctx context.Context, amount int, source string, taskID *string) (models.GrantXPResult, error) {
	p, err := s.load(ctx)
	if err != nil {
		return models.GrantXPResult{}, err
	}

	previous := Level(p.TotalXP)
	p.TotalXP = max(p.TotalXP+int64(amount), 0)
	p.UpdatedAt = s.now().UTC()
	p = withDerived(p)

	if err := s.progressRepo.Save(ctx, p); err != nil {
		return models.GrantXPResult{}, err
	}

	entry := models.XPEntry{
		Id:        uuid.NewString(),
		Amount:    amount,
		Source:    source,
		TaskId:    taskID,
		CreatedAt: p.UpdatedAt,
	}
	if err := s.progressRepo.AddXPEntry(ctx, entry); err != nil {
		return models.GrantXPResult{}, err
	}

	return models.GrantXPResult{
		LevelUp:       p.CurrentLevel > previous,
		NewLevel:      p.CurrentLevel,
		TotalXP:       p.TotalXP,
		CurrentXP:     p.CurrentXP,
		XPToNextLevel: p.XPToNextLevel,
	}, nil
}

// RecordCompletion grants the priority XP for a completed task and extends
// the streak.
func (s *ProgressService) RecordCompletion(ctx context.Context, task models.Task) (models.GrantXPResult, error) {
	id := task.Id
	result, err := s.GrantXP(ctx, s.XPFor(task.Priority), models.XPSourceTaskCompletion, &id)
	if err != nil {
		return models.GrantXPResult{}, fmt.Errorf("grant completion xp: %w", err)
	}

	p, err := s.load(ctx)
	if err != nil {
		return result, err
	}
	at := s.now().UTC()
	if task.CompletedAt != nil {
		at = *task.CompletedAt
	}
	p = AdvanceStreak(p, at)
	p.UpdatedAt = s.now().UTC()
	if err := s.progressRepo.Save(ctx, withDerived(p)); err != nil {
		return result, fmt.Errorf("update streak: %w", err)
	}

	if result.LevelUp {
		s.log.WithField("level", result.NewLevel).Info("level up")
	}
	return result, nil
}

// RevokeCompletion takes back the XP of the latest completion of taskID.
// A task without a recorded completion is a no-op.
func (s *ProgressService) RevokeCompletion(ctx context.Context, taskID string) error {
	entry, err := s.progressRepo.LatestXPEntryForTask(ctx, taskID, models.XPSourceTaskCompletion)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	p, err := s.load(ctx)
	if err != nil {
		return err
	}
	p.TotalXP = max(p.TotalXP-int64(entry.Amount), 0)
	p.UpdatedAt = s.now().UTC()
	if err := s.progressRepo.Save(ctx, withDerived(p)); err != nil {
		return fmt.Errorf("revoke xp: %w", err)
	}
	return s.progressRepo.DeleteXPEntry(ctx, entry.Id)
}
