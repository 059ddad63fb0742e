package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

type SubtaskRepository struct {
	db *sql.DB
}

func NewSubtaskRepository(db *sql.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

func (r *SubtaskRepository) Create(ctx context.Context, s models.Subtask) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subtasks (id, task_id, title, completed) VALUES (?, ?, ?, ?)
	`, s.Id, s.TaskId, s.Title, boolInt(s.Completed))
	if err != nil {
		return fmt.Errorf("create subtask: %w", err)
	}
	return nil
}

func (r *SubtaskRepository) GetByID(ctx context.Context, id string) (models.Subtask, error) {
	var s models.Subtask
	var completed int

	err := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, title, completed FROM subtasks WHERE id = ?
	`, id).Scan(&s.Id, &s.TaskId, &s.Title, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subtask{}, fmt.Errorf("subtask %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Subtask{}, fmt.Errorf("get subtask: %w", err)
	}
	s.Completed = completed != 0
	return s, nil
}

// ListByTask returns the subtasks of taskID in insertion order.
func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID string) ([]models.Subtask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, title, completed FROM subtasks WHERE task_id = ? ORDER BY rowid ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []models.Subtask{}
	for rows.Next() {
		var s models.Subtask
		var completed int
		if err := rows.Scan(&s.Id, &s.TaskId, &s.Title, &completed); err != nil {
			return nil, fmt.Errorf("scan subtask: %w", err)
		}
		s.Completed = completed != 0
		subtasks = append(subtasks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtasks: %w", err)
	}
	return subtasks, nil
}

func (r *SubtaskRepository) Update(ctx context.Context, s models.Subtask) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks SET title = ?, completed = ? WHERE id = ?
	`, s.Title, boolInt(s.Completed), s.Id)
	if err != nil {
		return fmt.Errorf("update subtask: %w", err)
	}
	return requireRow(result, "subtask", s.Id)
}

func (r *SubtaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return requireRow(result, "subtask", id)
}
