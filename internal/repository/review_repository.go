package repository

import (
	"context"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

// Upsert creates or replaces the review verdict for a session. One review
// row per session.
func (r *reviewRepository) Upsert(ctx context.Context, rev *model.ResultReview) error {
	query := `
		INSERT INTO result_reviews (id, session_id, status, remark, reviewed_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE
		SET status = EXCLUDED.status, remark = EXCLUDED.remark,
			reviewed_by = EXCLUDED.reviewed_by, updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, rev.ID, rev.SessionID, rev.Status, rev.Remark, rev.ReviewedBy).
		Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
	return translateErr(err)
}

func (r *reviewRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.ResultReview, error) {
	query := `SELECT id, session_id, status, remark, reviewed_by, created_at, updated_at
		FROM result_reviews
		WHERE session_id = $1`

	var rev model.ResultReview
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&rev.ID, &rev.SessionID, &rev.Status, &rev.Remark, &rev.ReviewedBy,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &rev, nil
}
