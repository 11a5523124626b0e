package repository

import (
	"context"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const testColumns = `id, institute_id, paper_id, title, description, target_class, target_set,
	status, start_at, end_at, duration_minutes, marking_scheme, violation_rules,
	shuffle_questions, show_results_to, total_marks, passing_marks, proctoring,
	created_at, updated_at`

type testRepository struct {
	pool *pgxpool.Pool
}

func NewTestRepository(pool *pgxpool.Pool) TestRepository {
	return &testRepository{pool: pool}
}

func (r *testRepository) Create(ctx context.Context, t *model.Test) error {
	query := `
		INSERT INTO tests (id, institute_id, paper_id, title, description, target_class, target_set,
			status, start_at, end_at, duration_minutes, marking_scheme, violation_rules,
			shuffle_questions, show_results_to, total_marks, passing_marks, proctoring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		t.ID, t.InstituteID, t.PaperID, t.Title, t.Description, t.TargetClass, t.TargetSet,
		t.Status, t.StartAt, t.EndAt, t.DurationMinutes, t.MarkingScheme, t.ViolationRules,
		t.ShuffleQuestions, t.ShowResultsTo, t.TotalMarks, t.PassingMarks, t.Proctoring,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return translateErr(err)
}

func (r *testRepository) Update(ctx context.Context, t *model.Test) error {
	query := `
		UPDATE tests
		SET title = $2, description = $3, target_class = $4, target_set = $5, status = $6,
			start_at = $7, end_at = $8, duration_minutes = $9, marking_scheme = $10,
			violation_rules = $11, shuffle_questions = $12, show_results_to = $13,
			total_marks = $14, passing_marks = $15, proctoring = $16, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, t.TargetClass, t.TargetSet, t.Status,
		t.StartAt, t.EndAt, t.DurationMinutes, t.MarkingScheme,
		t.ViolationRules, t.ShuffleQuestions, t.ShowResultsTo,
		t.TotalMarks, t.PassingMarks, t.Proctoring,
	).Scan(&t.UpdatedAt)
	return translateErr(err)
}

func (r *testRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests WHERE id = $1`

	var t model.Test
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.InstituteID, &t.PaperID, &t.Title, &t.Description, &t.TargetClass, &t.TargetSet,
		&t.Status, &t.StartAt, &t.EndAt, &t.DurationMinutes, &t.MarkingScheme, &t.ViolationRules,
		&t.ShuffleQuestions, &t.ShowResultsTo, &t.TotalMarks, &t.PassingMarks, &t.Proctoring,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &t, nil
}

func (r *testRepository) ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.Test, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tests WHERE institute_id = $1`, instituteID,
	).Scan(&total); err != nil {
		return nil, 0, translateErr(err)
	}

	query := `SELECT ` + testColumns + `
		FROM tests
		WHERE institute_id = $1
		ORDER BY start_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, instituteID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, translateErr(err)
	}
	defer rows.Close()

	tests := make([]model.Test, 0, perPage)
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(
			&t.ID, &t.InstituteID, &t.PaperID, &t.Title, &t.Description, &t.TargetClass, &t.TargetSet,
			&t.Status, &t.StartAt, &t.EndAt, &t.DurationMinutes, &t.MarkingScheme, &t.ViolationRules,
			&t.ShuffleQuestions, &t.ShowResultsTo, &t.TotalMarks, &t.PassingMarks, &t.Proctoring,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		tests = append(tests, t)
	}
	return tests, total, rows.Err()
}

func (r *testRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
