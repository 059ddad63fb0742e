package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

const templateColumns = `id, name, title, description, priority, project_id, recurrence_type, created_at, updated_at`

type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func scanTemplate(row rowScanner) (models.TaskTemplate, error) {
	var t models.TaskTemplate
	var description, projectID sql.NullString
	var priority, recurrence string
	var createdAt, updatedAt int64

	err := row.Scan(&t.Id, &t.Name, &t.Title, &description, &priority, &projectID, &recurrence, &createdAt, &updatedAt)
	if err != nil {
		return models.TaskTemplate{}, err
	}
	t.Description = stringPtr(description)
	t.Priority = models.Priority(priority)
	t.ProjectId = stringPtr(projectID)
	t.RecurrenceType = models.RecurrenceType(recurrence)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t models.TaskTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.Id,
		t.Name,
		t.Title,
		nullString(t.Description),
		string(t.Priority),
		nullString(t.ProjectId),
		string(t.RecurrenceType),
		toMillis(t.CreatedAt),
		toMillis(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (models.TaskTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM task_templates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskTemplate{}, fmt.Errorf("template %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.TaskTemplate{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// List returns the newest templates first.
func (r *TemplateRepository) List(ctx context.Context) ([]models.TaskTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM task_templates ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []models.TaskTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t models.TaskTemplate) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE task_templates SET
			name = ?, title = ?, description = ?, priority = ?, project_id = ?,
			recurrence_type = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Name,
		t.Title,
		nullString(t.Description),
		string(t.Priority),
		nullString(t.ProjectId),
		string(t.RecurrenceType),
		toMillis(t.UpdatedAt),
		t.Id,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRow(result, "template", t.Id)
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return requireRow(result, "template", id)
}
