package repository

import (
	"context"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, institute_id, external_id, name, email, roll_number, mobile,
	assigned_test_id, assigned_class, assigned_set, active, created_at`

type studentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func scanStudent(row pgx.Row) (*model.TestStudent, error) {
	var s model.TestStudent
	err := row.Scan(&s.ID, &s.InstituteID, &s.ExternalID, &s.Name, &s.Email, &s.RollNumber,
		&s.Mobile, &s.AssignedTestID, &s.AssignedClass, &s.AssignedSet, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (r *studentRepository) Create(ctx context.Context, s *model.TestStudent) error {
	query := `
		INSERT INTO test_students (id, institute_id, external_id, name, email, roll_number,
			mobile, assigned_test_id, assigned_class, assigned_set, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, s.ID, s.InstituteID, s.ExternalID, s.Name, s.Email,
		s.RollNumber, s.Mobile, s.AssignedTestID, s.AssignedClass, s.AssignedSet, s.Active).
		Scan(&s.CreatedAt)
	return translateErr(err)
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TestStudent, error) {
	query := `SELECT ` + studentColumns + ` FROM test_students WHERE id = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *studentRepository) GetByExternalID(ctx context.Context, externalID string) (*model.TestStudent, error) {
	query := `SELECT ` + studentColumns + ` FROM test_students WHERE external_id = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, externalID))
}

func (r *studentRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.TestStudent, error) {
	query := `SELECT ` + studentColumns + ` FROM test_students WHERE assigned_test_id = $1 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, testID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var students []model.TestStudent
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func (r *studentRepository) BindTest(ctx context.Context, studentID, testID uuid.UUID) (bool, error) {
	query := `
		UPDATE test_students
		SET assigned_test_id = $2
		WHERE id = $1 AND (assigned_test_id IS NULL OR assigned_test_id = $2)`

	tag, err := r.pool.Exec(ctx, query, studentID, testID)
	if err != nil {
		return false, translateErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM test_students WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
