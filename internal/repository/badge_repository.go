package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

type BadgeRepository struct {
	db *sql.DB
}

func NewBadgeRepository(db *sql.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) Create(ctx context.Context, b models.Badge) error {
	var metadata sql.NullString
	if len(b.Metadata) > 0 {
		raw, err := json.Marshal(b.Metadata)
		if err != nil {
			return fmt.Errorf("encode badge metadata: %w", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (id, badge_type, earned_at, metadata) VALUES (?, ?, ?, ?)
	`, b.Id, string(b.Type), toMillis(b.EarnedAt), metadata)
	if err != nil {
		return fmt.Errorf("award badge %s: %w", b.Type, err)
	}
	return nil
}

// List returns earned badges, most recent first.
func (r *BadgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, badge_type, earned_at, metadata FROM badges ORDER BY earned_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	badges := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		var kind string
		var earnedAt int64
		var metadata sql.NullString
		if err := rows.Scan(&b.Id, &kind, &earnedAt, &metadata); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.Type = models.BadgeType(kind)
		b.EarnedAt = fromMillis(earnedAt)
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &b.Metadata); err != nil {
				return nil, fmt.Errorf("decode badge metadata: %w", err)
			}
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return badges, nil
}
