package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)
	`, tag.Id, tag.Name, nullString(tag.Color), toMillis(tag.CreatedAt))
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (r *TagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check tag name: %w", err)
	}
	return count > 0, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id string) (models.Tag, error) {
	tags, err := r.query(ctx, `SELECT id, name, color, created_at FROM tags WHERE id = ?`, id)
	if err != nil {
		return models.Tag{}, err
	}
	if len(tags) == 0 {
		return models.Tag{}, fmt.Errorf("tag %s: %w", id, models.ErrNotFound)
	}
	return tags[0], nil
}

func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	return r.query(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name ASC`)
}

func (r *TagRepository) ListForTask(ctx context.Context, taskID string) ([]models.Tag, error) {
	return r.query(ctx, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.task_id = ?
		ORDER BY t.name ASC
	`, taskID)
}

func (r *TagRepository) query(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		var color sql.NullString
		var createdAt int64
		if err := rows.Scan(&tag.Id, &tag.Name, &color, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tag.Color = stringPtr(color)
		tag.CreatedAt = fromMillis(createdAt)
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tag: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM task_tags WHERE tag_id = ?`, id); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if err = requireRow(result, "tag", id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tag: %w", err)
	}
	return nil
}

func (r *TagRepository) AddToTask(ctx context.Context, taskID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
	`, taskID, tagID)
	if err != nil {
		return fmt.Errorf("add tag to task: %w", err)
	}
	return nil
}

func (r *TagRepository) RemoveFromTask(ctx context.Context, taskID, tagID string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?
	`, taskID, tagID)
	if err != nil {
		return fmt.Errorf("remove tag from task: %w", err)
	}
	return requireRow(result, "task tag", taskID+"/"+tagID)
}
