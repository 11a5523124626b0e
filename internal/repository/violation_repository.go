package repository

import (
	"context"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type violationRepository struct {
	pool *pgxpool.Pool
}

func NewViolationRepository(pool *pgxpool.Pool) ViolationRepository {
	return &violationRepository{pool: pool}
}

func (r *violationRepository) Append(ctx context.Context, l *model.ProctoringLog) error {
	query := `
		INSERT INTO proctoring_logs (id, session_id, student_id, type, details, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, l.ID, l.SessionID, l.StudentID, l.Type, l.Details, l.OccurredAt)
	return translateErr(err)
}

func (r *violationRepository) CountByType(ctx context.Context, sessionID uuid.UUID, vtype string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM proctoring_logs WHERE session_id = $1 AND type = $2`,
		sessionID, vtype,
	).Scan(&count)
	if err != nil {
		return 0, translateErr(err)
	}
	return count, nil
}

func (r *violationRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ProctoringLog, error) {
	query := `SELECT id, session_id, student_id, type, details, occurred_at
		FROM proctoring_logs
		WHERE session_id = $1
		ORDER BY occurred_at ASC`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var logs []model.ProctoringLog
	for rows.Next() {
		var l model.ProctoringLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.StudentID, &l.Type, &l.Details, &l.OccurredAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
