package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
)

type PomodoroRepository struct {
	db *sql.DB
}

func NewPomodoroRepository(db *sql.DB) *PomodoroRepository {
	return &PomodoroRepository{db: db}
}

func (r *PomodoroRepository) Create(ctx context.Context, s models.PomodoroSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pomodoro_sessions (id, task_id, started_at, completed_at, duration_seconds,
			mode, was_completed, task_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.Id,
		nullString(s.TaskId),
		toMillis(s.StartedAt),
		toMillis(s.CompletedAt),
		s.DurationSeconds,
		string(s.Mode),
		boolInt(s.WasCompleted),
		boolInt(s.TaskCompleted),
		toMillis(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create pomodoro session: %w", err)
	}
	return nil
}

func rangeClause(column string, rng models.StatsRange) (string, []any) {
	clause := ""
	var args []any
	if rng.From != nil {
		clause += " AND " + column + " >= ?"
		args = append(args, toMillis(*rng.From))
	}
	if rng.To != nil {
		clause += " AND " + column + " <= ?"
		args = append(args, toMillis(*rng.To))
	}
	return clause, args
}

func (r *PomodoroRepository) Stats(ctx context.Context, rng models.StatsRange) (models.PomodoroStats, error) {
	where, args := rangeClause("completed_at", rng)

	var stats models.PomodoroStats
	var seconds, completed sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(duration_seconds), SUM(was_completed)
		FROM pomodoro_sessions WHERE 1=1`+where, args...,
	).Scan(&stats.TotalSessions, &seconds, &completed)
	if err != nil {
		return models.PomodoroStats{}, fmt.Errorf("pomodoro totals: %w", err)
	}
	stats.TotalDurationMinutes = seconds.Int64 / 60
	stats.CompletedSessions = completed.Int64
	if stats.TotalSessions > 0 {
		stats.AverageDurationMinutes = float64(stats.TotalDurationMinutes) / float64(stats.TotalSessions)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT mode, COUNT(*), SUM(duration_seconds)
		FROM pomodoro_sessions WHERE 1=1`+where+`
		GROUP BY mode ORDER BY mode ASC`, args...,
	)
	if err != nil {
		return models.PomodoroStats{}, fmt.Errorf("pomodoro stats by mode: %w", err)
	}
	defer rows.Close()

	stats.SessionsByMode = []models.ModeStats{}
	for rows.Next() {
		var m models.ModeStats
		var mode string
		var total int64
		if err := rows.Scan(&mode, &m.Count, &total); err != nil {
			return models.PomodoroStats{}, fmt.Errorf("scan mode stats: %w", err)
		}
		m.Mode = models.PomodoroMode(mode)
		m.TotalDurationMinutes = total / 60
		stats.SessionsByMode = append(stats.SessionsByMode, m)
	}
	if err := rows.Err(); err != nil {
		return models.PomodoroStats{}, fmt.Errorf("iterate mode stats: %w", err)
	}
	return stats, nil
}

// Daily groups sessions by the UTC day they completed on.
func (r *PomodoroRepository) Daily(ctx context.Context, rng models.StatsRange) ([]models.DailyPomodoroStats, error) {
	where, args := rangeClause("completed_at", rng)

	rows, err := r.db.QueryContext(ctx, `
		SELECT date(completed_at / 1000, 'unixepoch') AS day,
			COUNT(*), SUM(duration_seconds) / 60, SUM(was_completed)
		FROM pomodoro_sessions WHERE 1=1`+where+`
		GROUP BY day ORDER BY day ASC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("daily pomodoro stats: %w", err)
	}
	defer rows.Close()

	days := []models.DailyPomodoroStats{}
	for rows.Next() {
		var d models.DailyPomodoroStats
		if err := rows.Scan(&d.Date, &d.SessionCount, &d.TotalDurationMinutes, &d.CompletedCount); err != nil {
			return nil, fmt.Errorf("scan daily pomodoro stats: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily pomodoro stats: %w", err)
	}
	return days, nil
}

// FocusTimes groups focus sessions by the UTC hour they started in, busiest
// hour first.
func (r *PomodoroRepository) FocusTimes(ctx context.Context) ([]models.FocusTime, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%H', started_at / 1000, 'unixepoch') AS INTEGER) AS hour,
			COUNT(*),
			AVG(duration_seconds) / 60.0,
			CAST(SUM(was_completed) AS REAL) / COUNT(*) * 100
		FROM pomodoro_sessions
		WHERE mode = ?
		GROUP BY hour
		ORDER BY COUNT(*) DESC, hour ASC
	`, string(models.PomodoroFocus))
	if err != nil {
		return nil, fmt.Errorf("pomodoro focus times: %w", err)
	}
	defer rows.Close()

	hours := []models.FocusTime{}
	for rows.Next() {
		var f models.FocusTime
		if err := rows.Scan(&f.Hour, &f.SessionCount, &f.AverageDurationMinutes, &f.CompletionRate); err != nil {
			return nil, fmt.Errorf("scan focus time: %w", err)
		}
		hours = append(hours, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate focus times: %w", err)
	}
	return hours, nil
}

// TaskRates reports, per existing task, how many focus sessions were spent
// on it and the share of them that ended with the task completed.
func (r *PomodoroRepository) TaskRates(ctx context.Context) ([]models.TaskPomodoroRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ps.task_id, t.title, COUNT(*),
			CAST(SUM(ps.task_completed) AS REAL) / COUNT(*) * 100 AS rate
		FROM pomodoro_sessions ps
		JOIN tasks t ON ps.task_id = t.id
		WHERE ps.mode = ?
		GROUP BY ps.task_id, t.title
		ORDER BY rate DESC, COUNT(*) DESC, ps.task_id ASC
	`, string(models.PomodoroFocus))
	if err != nil {
		return nil, fmt.Errorf("pomodoro task rates: %w", err)
	}
	defer rows.Close()

	rates := []models.TaskPomodoroRate{}
	for rows.Next() {
		var rate models.TaskPomodoroRate
		if err := rows.Scan(&rate.TaskId, &rate.TaskTitle, &rate.PomodoroCount, &rate.CompletionRate); err != nil {
			return nil, fmt.Errorf("scan task rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rates: %w", err)
	}
	return rates, nil
}

// GetStreak returns ErrNotFound before the first session is logged.
func (r *PomodoroRepository) GetStreak(ctx context.Context) (models.PomodoroStreak, error) {
	var s models.PomodoroStreak
	var last sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, last_session_date FROM pomodoro_streaks WHERE id = ?
	`, DefaultProgressID).Scan(&s.CurrentStreak, &s.LongestStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PomodoroStreak{}, fmt.Errorf("pomodoro streak: %w", models.ErrNotFound)
	}
	if err != nil {
		return models.PomodoroStreak{}, fmt.Errorf("get pomodoro streak: %w", err)
	}
	s.LastSessionDate = timePtr(last)
	return s, nil
}

func (r *PomodoroRepository) SaveStreak(ctx context.Context, s models.PomodoroStreak, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pomodoro_streaks (id, current_streak, longest_streak, last_session_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_session_date = excluded.last_session_date,
			updated_at = excluded.updated_at
	`, DefaultProgressID, s.CurrentStreak, s.LongestStreak, nullMillis(s.LastSessionDate), toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("save pomodoro streak: %w", err)
	}
	return nil
}
