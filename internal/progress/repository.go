package progress

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-lms/backend/internal/models"
)

// Repository persists per-user watch progress.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a watch progress repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetPercent returns the recorded completion percentage for (user, lecture).
// A lecture never watched reads as 0.
func (r *Repository) GetPercent(ctx context.Context, userID uuid.UUID, lectureID int64) (float64, error) {
	const q = `SELECT percent FROM watch_progress WHERE user_id = $1 AND lecture_id = $2`
	var pct float64
	err := r.pool.QueryRow(ctx, q, userID, lectureID).Scan(&pct)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return pct, nil
}

// Upsert records progress for (user, lecture). Percent only moves forward:
// seeking back in the player must not un-complete a lecture.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, lectureID int64, watchedSeconds int, percent float64) (*models.WatchProgress, error) {
	const q = `INSERT INTO watch_progress (user_id, lecture_id, watched_seconds, percent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, lecture_id) DO UPDATE SET
			watched_seconds = GREATEST(watch_progress.watched_seconds, EXCLUDED.watched_seconds),
			percent = GREATEST(watch_progress.percent, EXCLUDED.percent),
			updated_at = NOW()
		RETURNING user_id, lecture_id, watched_seconds, percent, updated_at`
	var wp models.WatchProgress
	err := r.pool.QueryRow(ctx, q, userID, lectureID, watchedSeconds, percent).
		Scan(&wp.UserID, &wp.LectureID, &wp.WatchedSeconds, &wp.Percent, &wp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &wp, nil
}
