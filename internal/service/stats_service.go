package service

import (
	"context"
	"errors"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

const DefaultStatsDays = 30

type StatsService struct {
	statsRepo *repository.StatsRepository
	now       func() time.Time
}

func NewStatsService(statsRepo *repository.StatsRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		now:       time.Now,
	}
}

// Stats summarizes completions over the last days UTC days, today
// included. days of 0 selects DefaultStatsDays.
func (s *StatsService) Stats(ctx context.Context, days int) (models.StatsSummary, error) {
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 0 {
		return models.StatsSummary{}, &models.ValidationError{Field: "days", Message: "must be positive"}
	}

	since := dayStart(s.now()).AddDate(0, 0, 1-days)
	summary := models.StatsSummary{Days: days}

	var err error
	if summary.Completions, err = s.statsRepo.CompletionsSince(ctx, since); err != nil {
		return models.StatsSummary{}, err
	}
	if summary.Priorities, err = s.statsRepo.Priorities(ctx); err != nil {
		return models.StatsSummary{}, err
	}
	if summary.Projects, err = s.statsRepo.Projects(ctx); err != nil {
		return models.StatsSummary{}, err
	}
	if summary.Trend, err = s.trend(ctx, summary.Completions); err != nil {
		return models.StatsSummary{}, err
	}
	if summary.AverageCompletionDays, err = s.statsRepo.AverageCompletionDays(ctx); err != nil {
		return models.StatsSummary{}, err
	}

	day, count, err := s.statsRepo.BusiestWeekday(ctx)
	switch {
	case err == nil:
		summary.MostProductiveDay = &models.WeekdayCount{Weekday: day.String(), Count: count}
	case !errors.Is(err, models.ErrNotFound):
		return models.StatsSummary{}, err
	}
	return summary, nil
}

// trend rates each day's completions against the tasks that existed by
// the end of that day.
func (s *StatsService) trend(ctx context.Context, completions []models.DailyCount) ([]models.DailyRate, error) {
	rates := make([]models.DailyRate, 0, len(completions))
	for _, c := range completions {
		day, err := time.Parse(time.DateOnly, c.Date)
		if err != nil {
			return nil, err
		}
		total, err := s.statsRepo.CreatedUntil(ctx, day.AddDate(0, 0, 1).Add(-time.Millisecond))
		if err != nil {
			return nil, err
		}
		rate := models.DailyRate{Date: c.Date}
		if total > 0 {
			rate.CompletionRate = float64(c.Count) / float64(total) * 100
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
