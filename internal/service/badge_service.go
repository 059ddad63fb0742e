package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

type badgeRule struct {
	kind     models.BadgeType
	metadata map[string]int
	earned   func(completed int64, p models.UserProgress) bool
}

var badgeRules = []badgeRule{
	{
		kind:     models.BadgeFirstTask,
		metadata: map[string]int{"milestone": 1},
		earned:   func(completed int64, _ models.UserProgress) bool { return completed >= 1 },
	},
	{
		kind:     models.BadgeTaskMaster100,
		metadata: map[string]int{"milestone": 100},
		earned:   func(completed int64, _ models.UserProgress) bool { return completed >= 100 },
	},
	{
		kind:     models.BadgeWeekWarrior,
		metadata: map[string]int{"streak": 7},
		earned:   func(_ int64, p models.UserProgress) bool { return p.CurrentStreak >= 7 },
	},
	{
		kind:     models.BadgeLevel10,
		metadata: map[string]int{"level": 10},
		earned:   func(_ int64, p models.UserProgress) bool { return p.CurrentLevel >= 10 },
	},
}

// BadgeService awards one-time achievements. Each badge type is earned at
// most once.
type BadgeService struct {
	badgeRepo *repository.BadgeRepository
	statsRepo *repository.StatsRepository
	progress  *ProgressService
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewBadgeService(
	badgeRepo *repository.BadgeRepository,
	statsRepo *repository.StatsRepository,
	progress *ProgressService,
	log logrus.FieldLogger,
) *BadgeService {
	return &BadgeService{
		badgeRepo: badgeRepo,
		statsRepo: statsRepo,
		progress:  progress,
		log:       logger.OrDiscard(log),
		now:       time.Now,
	}
}

func (s *BadgeService) ListBadges(ctx context.Context) ([]models.Badge, error) {
	return s.badgeRepo.List(ctx)
}

// CheckBadges awards every badge whose rule now holds and returns only
// the newly awarded ones.
func (s *BadgeService) CheckBadges(ctx context.Context) ([]models.Badge, error) {
	progress, err := s.progress.GetProgress(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.statsRepo.CompletedCount(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.badgeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	have := make(map[models.BadgeType]bool, len(earned))
	for _, b := range earned {
		have[b.Type] = true
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	awarded := []models.Badge{}
	for _, rule := range badgeRules {
		if have[rule.kind] || !rule.earned(completed, progress) {
			continue
		}
		badge := models.Badge{
			Id:       uuid.NewString(),
			Type:     rule.kind,
			EarnedAt: now,
			Metadata: rule.metadata,
		}
		if err := s.badgeRepo.Create(ctx, badge); err != nil {
			return awarded, err
		}
		s.log.WithField("badge", badge.Type).Info("badge earned")
		awarded = append(awarded, badge)
	}
	return awarded, nil
}
