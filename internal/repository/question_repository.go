package repository

import (
	"context"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionColumns = `id, paper_id, sr, level, text, image, options, correct_answer, is_evaluatable, created_at, updated_at`

const paperColumns = `id, institute_id, title, class, paper_set, created_at, updated_at`

type questionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) QuestionRepository {
	return &questionRepository{pool: pool}
}

func (r *questionRepository) CreatePaper(ctx context.Context, p *model.QuestionPaper) error {
	query := `
		INSERT INTO question_papers (id, institute_id, title, class, paper_set)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.ID, p.InstituteID, p.Title, p.Class, p.Set).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateErr(err)
}

func (r *questionRepository) GetPaper(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error) {
	query := `SELECT ` + paperColumns + ` FROM question_papers WHERE id = $1`

	var p model.QuestionPaper
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.InstituteID, &p.Title, &p.Class, &p.Set, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *questionRepository) ListPapersByInstitute(ctx context.Context, instituteID uuid.UUID) ([]model.QuestionPaper, error) {
	query := `SELECT ` + paperColumns + `
		FROM question_papers
		WHERE institute_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, instituteID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var papers []model.QuestionPaper
	for rows.Next() {
		var p model.QuestionPaper
		if err := rows.Scan(&p.ID, &p.InstituteID, &p.Title, &p.Class, &p.Set, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (r *questionRepository) Create(ctx context.Context, q *model.Question) error {
	query := `
		INSERT INTO questions (id, paper_id, sr, level, text, image, options, correct_answer, is_evaluatable)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		q.ID, q.PaperID, q.Sr, q.Level, q.Text, q.Image, q.Options, q.CorrectAnswer, q.IsEvaluatable,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	return translateErr(err)
}

func (r *questionRepository) Update(ctx context.Context, q *model.Question) error {
	query := `
		UPDATE questions
		SET sr = $2, level = $3, text = $4, image = $5, options = $6, correct_answer = $7,
			is_evaluatable = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		q.ID, q.Sr, q.Level, q.Text, q.Image, q.Options, q.CorrectAnswer, q.IsEvaluatable,
	).Scan(&q.UpdatedAt)
	return translateErr(err)
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	var q model.Question
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.PaperID, &q.Sr, &q.Level, &q.Text, &q.Image, &q.Options, &q.CorrectAnswer,
		&q.IsEvaluatable, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &q, nil
}

func (r *questionRepository) ListByPaper(ctx context.Context, paperID uuid.UUID) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE paper_id = $1 ORDER BY sr ASC`

	rows, err := r.pool.Query(ctx, query, paperID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(
			&q.ID, &q.PaperID, &q.Sr, &q.Level, &q.Text, &q.Image, &q.Options, &q.CorrectAnswer,
			&q.IsEvaluatable, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *questionRepository) PaperLocked(ctx context.Context, paperID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM test_sessions s
			JOIN tests t ON t.id = s.test_id
			WHERE t.paper_id = $1
			  AND s.status = 'in-progress'
			  AND s.answers <> '{}'::jsonb
		)`

	var locked bool
	if err := r.pool.QueryRow(ctx, query, paperID).Scan(&locked); err != nil {
		return false, translateErr(err)
	}
	return locked, nil
}
