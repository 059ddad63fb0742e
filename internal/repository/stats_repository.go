package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
)

// StatsRepository runs read-only aggregates over tasks. Days are UTC.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CompletedCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE completed_at IS NOT NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return n, nil
}

// CreatedUntil counts tasks created at or before t.
func (r *StatsRepository) CreatedUntil(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE created_at <= ?`, toMillis(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count created tasks: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) CompletionsSince(ctx context.Context, since time.Time) ([]models.DailyCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date(completed_at / 1000, 'unixepoch') AS day, COUNT(*)
		FROM tasks
		WHERE completed_at IS NOT NULL AND completed_at >= ?
		GROUP BY day ORDER BY day ASC
	`, toMillis(since))
	if err != nil {
		return nil, fmt.Errorf("completion stats: %w", err)
	}
	defer rows.Close()

	counts := []models.DailyCount{}
	for rows.Next() {
		var c models.DailyCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("scan completion stats: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion stats: %w", err)
	}
	return counts, nil
}

// Priorities orders high, medium, low.
func (r *StatsRepository) Priorities(ctx context.Context) ([]models.PriorityCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT priority, COUNT(*) FROM tasks
		GROUP BY priority
		ORDER BY CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END
	`)
	if err != nil {
		return nil, fmt.Errorf("priority distribution: %w", err)
	}
	defer rows.Close()

	counts := []models.PriorityCount{}
	for rows.Next() {
		var c models.PriorityCount
		var priority string
		if err := rows.Scan(&priority, &c.Count); err != nil {
			return nil, fmt.Errorf("scan priority distribution: %w", err)
		}
		c.Priority = models.Priority(priority)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate priority distribution: %w", err)
	}
	return counts, nil
}

// Projects reports totals per project. Tasks without a project form one
// group with a nil id.
func (r *StatsRepository) Projects(ctx context.Context) ([]models.ProjectStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.project_id, p.name, COUNT(*),
			SUM(CASE WHEN t.completed_at IS NOT NULL THEN 1 ELSE 0 END)
		FROM tasks t
		LEFT JOIN projects p ON t.project_id = p.id
		GROUP BY t.project_id, p.name
		ORDER BY COUNT(*) DESC, p.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	defer rows.Close()

	stats := []models.ProjectStats{}
	for rows.Next() {
		var s models.ProjectStats
		var id, name sql.NullString
		if err := rows.Scan(&id, &name, &s.TotalTasks, &s.CompletedTasks); err != nil {
			return nil, fmt.Errorf("scan project stats: %w", err)
		}
		s.ProjectId = stringPtr(id)
		s.ProjectName = stringPtr(name)
		if s.TotalTasks > 0 {
			s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project stats: %w", err)
	}
	return stats, nil
}

// BusiestWeekday returns the weekday with the most completions, or
// ErrNotFound when nothing has been completed.
func (r *StatsRepository) BusiestWeekday(ctx context.Context) (time.Weekday, int64, error) {
	var day int
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT CAST(strftime('%w', completed_at / 1000, 'unixepoch') AS INTEGER) AS weekday, COUNT(*)
		FROM tasks
		WHERE completed_at IS NOT NULL
		GROUP BY weekday
		ORDER BY COUNT(*) DESC, weekday ASC
		LIMIT 1
	`).Scan(&day, &n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("busiest weekday: %w", models.ErrNotFound)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("busiest weekday: %w", err)
	}
	return time.Weekday(day), n, nil
}

// AverageCompletionDays is the mean time from creation to completion.
func (r *StatsRepository) AverageCompletionDays(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT AVG(CAST(completed_at - created_at AS REAL) / 86400000.0)
		FROM tasks WHERE completed_at IS NOT NULL
	`).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average completion time: %w", err)
	}
	return avg.Float64, nil
}
