package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads purchase and refund records written by the billing
// subsystem. It exposes only what streaming entitlement needs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an orders repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// HasValidPurchase reports whether the user holds a completed order for the
// course that has not been superseded by a later-approved refund.
func (r *Repository) HasValidPurchase(ctx context.Context, userID uuid.UUID, courseID int64) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM orders o
		WHERE o.user_id = $1 AND o.course_id = $2 AND o.status = 'completed'
		  AND NOT EXISTS (
			SELECT 1 FROM refunds rf
			WHERE rf.order_id = o.id AND rf.status = 'approved'
			  AND rf.decided_at > COALESCE(o.paid_at, o.created_at)
		  )
	)`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, userID, courseID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
