package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `id, test_id, test_student_id, status, started_at, deadline_at, submitted_at,
	submit_cause, question_order, marking_scheme, answers, score_breakdown, result_published,
	created_at, updated_at`

type sessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func scanSession(row pgx.Row) (*model.TestSession, error) {
	var s model.TestSession
	var cause *string
	err := row.Scan(
		&s.ID, &s.TestID, &s.TestStudentID, &s.Status, &s.StartedAt, &s.DeadlineAt, &s.SubmittedAt,
		&cause, &s.QuestionOrder, &s.MarkingScheme, &s.Answers, &s.Score, &s.ResultPublished,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cause != nil {
		c := model.SubmitCause(*cause)
		s.SubmitCause = &c
	}
	return &s, nil
}

// Create inserts the session unless one exists for the (test, student)
// pair. A concurrent double-start resolves to the first writer's row.
func (r *sessionRepository) Create(ctx context.Context, s *model.TestSession) (*model.TestSession, bool, error) {
	query := `
		INSERT INTO test_sessions (id, test_id, test_student_id, status, started_at, deadline_at,
			question_order, marking_scheme, answers)
		VALUES ($1, $2, $3, 'in-progress', $4, $5, $6, $7, '{}'::jsonb)
		ON CONFLICT (test_id, test_student_id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		s.ID, s.TestID, s.TestStudentID, s.StartedAt, s.DeadlineAt, s.QuestionOrder, s.MarkingScheme,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err == nil {
		s.Status = model.SessionInProgress
		s.Answers = map[string]model.Answer{}
		return s, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, translateErr(err)
	}

	existing, err := r.GetByTestAndStudent(ctx, s.TestID, s.TestStudentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM test_sessions WHERE id = $1`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateErr(err)
	}
	return s, nil
}

func (r *sessionRepository) GetByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) (*model.TestSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM test_sessions WHERE test_id = $1 AND test_student_id = $2`

	s, err := scanSession(r.pool.QueryRow(ctx, query, testID, studentID))
	if err != nil {
		return nil, translateErr(err)
	}
	return s, nil
}

func (r *sessionRepository) UpsertAnswer(ctx context.Context, sessionID uuid.UUID, questionID string, a model.Answer) (bool, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("marshal answer: %w", err)
	}

	query := `
		UPDATE test_sessions
		SET answers = answers || jsonb_build_object($2::text, $3::jsonb), updated_at = now()
		WHERE id = $1 AND status = 'in-progress'`

	tag, err := r.pool.Exec(ctx, query, sessionID, questionID, string(payload))
	if err != nil {
		return false, translateErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *sessionRepository) Finalize(ctx context.Context, sessionID uuid.UUID, cause model.SubmitCause, score model.ScoreBreakdown, at time.Time) (bool, error) {
	query := `
		UPDATE test_sessions
		SET status = 'submitted', submit_cause = $2, score_breakdown = $3, submitted_at = $4,
			updated_at = now()
		WHERE id = $1 AND status = 'in-progress'`

	tag, err := r.pool.Exec(ctx, query, sessionID, string(cause), score, at)
	if err != nil {
		return false, translateErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *sessionRepository) ListByTest(ctx context.Context, testID uuid.UUID, page, perPage int) ([]model.TestSession, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_sessions WHERE test_id = $1`, testID,
	).Scan(&total); err != nil {
		return nil, 0, translateErr(err)
	}

	query := `SELECT ` + sessionColumns + `
		FROM test_sessions
		WHERE test_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, testID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, translateErr(err)
	}
	defer rows.Close()

	sessions := make([]model.TestSession, 0, perPage)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}

func (r *sessionRepository) ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.TestSession, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_sessions s JOIN tests t ON t.id = s.test_id WHERE t.institute_id = $1`,
		instituteID,
	).Scan(&total); err != nil {
		return nil, 0, translateErr(err)
	}

	query := `SELECT s.id, s.test_id, s.test_student_id, s.status, s.started_at, s.deadline_at,
			s.submitted_at, s.submit_cause, s.question_order, s.marking_scheme, s.answers,
			s.score_breakdown, s.result_published, s.created_at, s.updated_at
		FROM test_sessions s
		JOIN tests t ON t.id = s.test_id
		WHERE t.institute_id = $1
		ORDER BY s.started_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, instituteID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, translateErr(err)
	}
	defer rows.Close()

	sessions := make([]model.TestSession, 0, perPage)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}

func (r *sessionRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.TestSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM test_sessions
		WHERE status = 'in-progress' AND deadline_at <= $1
		ORDER BY deadline_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var sessions []model.TestSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) MarkResultPublished(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	query := `
		UPDATE test_sessions
		SET result_published = TRUE, updated_at = now()
		WHERE id = $1 AND status = 'submitted' AND result_published = FALSE`

	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return false, translateErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *sessionRepository) GetRouting(ctx context.Context, sessionID uuid.UUID) (*SessionRouting, error) {
	query := `
		SELECT s.id, s.test_id, t.institute_id, st.external_id, st.name
		FROM test_sessions s
		JOIN tests t ON t.id = s.test_id
		JOIN test_students st ON st.id = s.test_student_id
		WHERE s.id = $1`

	var routing SessionRouting
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&routing.SessionID, &routing.TestID, &routing.InstituteID,
		&routing.StudentExternalID, &routing.StudentName,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &routing, nil
}
