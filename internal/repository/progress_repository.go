package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

const DefaultProgressID = "default"

type ProgressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns the stored progress row, or ErrNotFound before the first
// completion has ever been recorded.
func (r *ProgressRepository) Get(ctx context.Context) (models.UserProgress, error) {
	var p models.UserProgress
	var last sql.NullInt64
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, total_xp, current_level, current_streak, longest_streak,
			last_completion_date, created_at, updated_at
		FROM user_progress WHERE id = ?
	`, DefaultProgressID).Scan(
		&p.Id,
		&p.TotalXP,
		&p.CurrentLevel,
		&p.CurrentStreak,
		&p.LongestStreak,
		&last,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProgress{}, fmt.Errorf("user progress: %w", models.ErrNotFound)
	}
	if err != nil {
		return models.UserProgress{}, fmt.Errorf("get user progress: %w", err)
	}

	p.LastCompletionDate = timePtr(last)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func (r *ProgressRepository) Save(ctx context.Context, p models.UserProgress) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_progress (id, total_xp, current_level, current_streak, longest_streak,
			last_completion_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_xp = excluded.total_xp,
			current_level = excluded.current_level,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_completion_date = excluded.last_completion_date,
			updated_at = excluded.updated_at
	`,
		DefaultProgressID,
		p.TotalXP,
		p.CurrentLevel,
		p.CurrentStreak,
		p.LongestStreak,
		nullMillis(p.LastCompletionDate),
		toMillis(p.CreatedAt),
		toMillis(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save user progress: %w", err)
	}
	return nil
}

func (r *ProgressRepository) AddXPEntry(ctx context.Context, entry models.XPEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO xp_history (id, xp_amount, source, task_id, created_at) VALUES (?, ?, ?, ?, ?)
	`, entry.Id, entry.Amount, entry.Source, nullString(entry.TaskId), toMillis(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("record xp entry: %w", err)
	}
	return nil
}

func (r *ProgressRepository) LatestXPEntryForTask(ctx context.Context, taskID, source string) (models.XPEntry, error) {
	var e models.XPEntry
	var task sql.NullString
	var createdAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, xp_amount, source, task_id, created_at FROM xp_history
		WHERE task_id = ? AND source = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, taskID, source).Scan(&e.Id, &e.Amount, &e.Source, &task, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.XPEntry{}, fmt.Errorf("xp entry for task %s: %w", taskID, models.ErrNotFound)
	}
	if err != nil {
		return models.XPEntry{}, fmt.Errorf("get xp entry: %w", err)
	}
	e.TaskId = stringPtr(task)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func (r *ProgressRepository) DeleteXPEntry(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM xp_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete xp entry: %w", err)
	}
	return requireRow(result, "xp entry", id)
}
