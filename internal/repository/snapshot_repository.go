package repository

import (
	"context"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type snapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Create(ctx context.Context, s *model.WebcamSnapshot) error {
	query := `
		INSERT INTO webcam_snapshots (id, session_id, student_id, url, public_id, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, s.ID, s.SessionID, s.StudentID, s.URL, s.PublicID, s.CapturedAt)
	return translateErr(err)
}

func (r *snapshotRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.WebcamSnapshot, error) {
	query := `SELECT id, session_id, student_id, url, public_id, captured_at
		FROM webcam_snapshots
		WHERE session_id = $1
		ORDER BY captured_at ASC`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var snaps []model.WebcamSnapshot
	for rows.Next() {
		var s model.WebcamSnapshot
		if err := rows.Scan(&s.ID, &s.SessionID, &s.StudentID, &s.URL, &s.PublicID, &s.CapturedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
