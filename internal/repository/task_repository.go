package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
)

const taskColumns = `id, title, description, completed, completed_at, due_at, priority,
	created_at, updated_at, project_id, order_index,
	recurrence_type, recurrence_interval, recurrence_parent_id`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var description, projectID, parentID sql.NullString
	var completedAt, dueAt sql.NullInt64
	var createdAt, updatedAt int64
	var completed int
	var priority, recurrenceType string

	err := row.Scan(
		&t.Id,
		&t.Title,
		&description,
		&completed,
		&completedAt,
		&dueAt,
		&priority,
		&createdAt,
		&updatedAt,
		&projectID,
		&t.OrderIndex,
		&recurrenceType,
		&t.Recurrence.Interval,
		&parentID,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Description = stringPtr(description)
	t.Completed = completed != 0
	t.CompletedAt = timePtr(completedAt)
	t.DueDate = timePtr(dueAt)
	t.Priority = models.Priority(priority)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	t.ProjectId = stringPtr(projectID)
	t.Recurrence.Type = models.RecurrenceType(recurrenceType)
	t.Recurrence.ParentID = stringPtr(parentID)
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
	INSERT INTO tasks (` + taskColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.Id,
		task.Title,
		nullString(task.Description),
		boolInt(task.Completed),
		nullMillis(task.CompletedAt),
		nullMillis(task.DueDate),
		string(task.Priority),
		toMillis(task.CreatedAt),
		toMillis(task.UpdatedAt),
		nullString(task.ProjectId),
		task.OrderIndex,
		string(task.Recurrence.Type),
		task.Recurrence.Interval,
		nullString(task.Recurrence.ParentID),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, filter *models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if filter != nil {
		if filter.ProjectId != nil {
			query += " AND project_id = ?"
			args = append(args, *filter.ProjectId)
		}
		if filter.Completed != nil {
			query += " AND completed = ?"
			args = append(args, boolInt(*filter.Completed))
		}
		if filter.DueBefore != nil {
			query += " AND due_at <= ?"
			args = append(args, toMillis(*filter.DueBefore))
		}
		if filter.DueAfter != nil {
			query += " AND due_at >= ?"
			args = append(args, toMillis(*filter.DueAfter))
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			query += " AND (title LIKE ? OR description LIKE ?)"
			pattern := "%" + search + "%"
			args = append(args, pattern, pattern)
		}
		if filter.TagId != "" {
			query += " AND id IN (SELECT task_id FROM task_tags WHERE tag_id = ?)"
			args = append(args, filter.TagId)
		}
	}

	query += " ORDER BY order_index ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Update writes every mutable column of task.
func (r *TaskRepository) Update(ctx context.Context, task models.Task) error {
	query := `
		UPDATE tasks SET
			title = ?, description = ?, completed = ?, completed_at = ?, due_at = ?,
			priority = ?, updated_at = ?, project_id = ?, order_index = ?,
			recurrence_type = ?, recurrence_interval = ?, recurrence_parent_id = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		nullString(task.Description),
		boolInt(task.Completed),
		nullMillis(task.CompletedAt),
		nullMillis(task.DueDate),
		string(task.Priority),
		toMillis(task.UpdatedAt),
		nullString(task.ProjectId),
		task.OrderIndex,
		string(task.Recurrence.Type),
		task.Recurrence.Interval,
		nullString(task.Recurrence.ParentID),
		task.Id,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(result, "task", task.Id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("delete task tags: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("delete subtasks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err = requireRow(result, "task", id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ClearProject(ctx context.Context, projectID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET project_id = NULL, updated_at = MAX(updated_at, ?) WHERE project_id = ?`,
		toMillis(now), projectID,
	)
	if err != nil {
		return fmt.Errorf("clear project from tasks: %w", err)
	}
	return nil
}

func requireRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", kind, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
