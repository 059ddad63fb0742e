package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

type PomodoroService struct {
	pomodoroRepo *repository.PomodoroRepository
	taskRepo     *repository.TaskRepository
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewPomodoroService(
	pomodoroRepo *repository.PomodoroRepository,
	taskRepo *repository.TaskRepository,
	log logrus.FieldLogger,
) *PomodoroService {
	return &PomodoroService{
		pomodoroRepo: pomodoroRepo,
		taskRepo:     taskRepo,
		log:          logger.OrDiscard(log),
		now:          time.Now,
	}
}

// LogPomodoro stores a finished session and extends the session streak by
// the day it completed on.
func (s *PomodoroService) LogPomodoro(ctx context.Context, in models.LogPomodoroInput) (models.PomodoroSession, error) {
	if err := in.Validate(); err != nil {
		return models.PomodoroSession{}, err
	}
	taskID := nonEmpty(in.TaskId)
	if taskID != nil {
		if _, err := s.taskRepo.GetByID(ctx, *taskID); err != nil {
			return models.PomodoroSession{}, err
		}
	}

	started := in.StartedAt.UTC().Truncate(time.Millisecond)
	completed := in.CompletedAt.UTC().Truncate(time.Millisecond)
	duration := in.DurationSeconds
	if duration == 0 {
		duration = int(completed.Sub(started) / time.Second)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	session := models.PomodoroSession{
		Id:              uuid.NewString(),
		TaskId:          taskID,
		StartedAt:       started,
		CompletedAt:     completed,
		DurationSeconds: duration,
		Mode:            in.Mode,
		WasCompleted:    in.WasCompleted,
		TaskCompleted:   in.TaskCompleted,
		CreatedAt:       now,
	}
	if err := s.pomodoroRepo.Create(ctx, session); err != nil {
		return models.PomodoroSession{}, err
	}

	if err := s.advanceStreak(ctx, completed, now); err != nil {
		s.log.WithError(err).WithField("session_id", session.Id).Warn("failed to update pomodoro streak")
	}
	return session, nil
}

func (s *PomodoroService) advanceStreak(ctx context.Context, at, now time.Time) error {
	streak, err := s.pomodoroRepo.GetStreak(ctx)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return s.pomodoroRepo.SaveStreak(ctx, AdvancePomodoroStreak(streak, at), now)
}

func (s *PomodoroService) PomodoroStats(ctx context.Context, rng models.StatsRange) (models.PomodoroStats, error) {
	return s.pomodoroRepo.Stats(ctx, rng)
}

func (s *PomodoroService) DailyPomodoroStats(ctx context.Context, rng models.StatsRange) ([]models.DailyPomodoroStats, error) {
	return s.pomodoroRepo.Daily(ctx, rng)
}

// PomodoroStreak returns a zero streak before any session is logged.
func (s *PomodoroService) PomodoroStreak(ctx context.Context) (models.PomodoroStreak, error) {
	streak, err := s.pomodoroRepo.GetStreak(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return models.PomodoroStreak{}, nil
	}
	return streak, err
}

func (s *PomodoroService) BestFocusTimes(ctx context.Context) ([]models.FocusTime, error) {
	return s.pomodoroRepo.FocusTimes(ctx)
}

func (s *PomodoroService) TaskPomodoroRates(ctx context.Context) ([]models.TaskPomodoroRate, error) {
	return s.pomodoroRepo.TaskRates(ctx)
}
