package features

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-lms/backend/internal/models"
)

// Repository persists settings in the shared key-value configuration table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns a setting by key, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, key string) (*models.Setting, error) {
	const q = `SELECT key, value, updated_at FROM settings WHERE key = $1`
	var s models.Setting
	err := r.pool.QueryRow(ctx, q, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Upsert inserts or updates a setting.
func (r *Repository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	const q = `INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING key, value, updated_at`
	var s models.Setting
	if err := r.pool.QueryRow(ctx, q, key, value).Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
