package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.Id,
		project.Name,
		nullString(project.Color),
		toMillis(project.CreatedAt),
		toMillis(project.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	var color sql.NullString
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, created_at, updated_at FROM projects WHERE id = ?
	`, id).Scan(&p.Id, &p.Name, &color, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}

	p.Color = stringPtr(color)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, created_at, updated_at FROM projects ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		var color sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&p.Id, &p.Name, &color, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Color = stringPtr(color)
		p.CreatedAt = fromMillis(createdAt)
		p.UpdatedAt = fromMillis(updatedAt)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(result, "project", id)
}
