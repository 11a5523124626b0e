package repository

import (
	"context"
	"time"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
)

// SessionRouting is the read-side projection used to route realtime
// events to the right monitoring rooms.
type SessionRouting struct {
	SessionID         uuid.UUID
	TestID            uuid.UUID
	InstituteID       uuid.UUID
	StudentExternalID string
	StudentName       string
}

type TestRepository interface {
	Create(ctx context.Context, t *model.Test) error
	Update(ctx context.Context, t *model.Test) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
	ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.Test, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuestionRepository interface {
	CreatePaper(ctx context.Context, p *model.QuestionPaper) error
	GetPaper(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error)
	ListPapersByInstitute(ctx context.Context, instituteID uuid.UUID) ([]model.QuestionPaper, error)

	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	ListByPaper(ctx context.Context, paperID uuid.UUID) ([]model.Question, error)

	// PaperLocked reports whether any in-progress session with at least
	// one saved answer references the paper, which freezes its questions.
	PaperLocked(ctx context.Context, paperID uuid.UUID) (bool, error)
}

type StudentRepository interface {
	Create(ctx context.Context, s *model.TestStudent) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TestStudent, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.TestStudent, error)
	ListByTest(ctx context.Context, testID uuid.UUID) ([]model.TestStudent, error)

	// BindTest sets the student's assigned test if none is set yet.
	// Returns false when the student was already bound elsewhere.
	BindTest(ctx context.Context, studentID, testID uuid.UUID) (bool, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	// Create inserts the session unless one already exists for the same
	// test and student. It returns the authoritative row and whether
	// this call created it.
	Create(ctx context.Context, s *model.TestSession) (*model.TestSession, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error)
	GetByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) (*model.TestSession, error)

	// UpsertAnswer merges one answer into the answers object, only while
	// the session is still in progress. Returns false if it was not.
	UpsertAnswer(ctx context.Context, sessionID uuid.UUID, questionID string, a model.Answer) (bool, error)

	// Finalize flips an in-progress session to submitted with the given
	// cause and score. Returns false if another writer got there first.
	Finalize(ctx context.Context, sessionID uuid.UUID, cause model.SubmitCause, score model.ScoreBreakdown, at time.Time) (bool, error)

	ListByTest(ctx context.Context, testID uuid.UUID, page, perPage int) ([]model.TestSession, int64, error)
	ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.TestSession, int64, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.TestSession, error)

	// MarkResultPublished flips the published flag exactly once.
	MarkResultPublished(ctx context.Context, sessionID uuid.UUID) (bool, error)

	GetRouting(ctx context.Context, sessionID uuid.UUID) (*SessionRouting, error)
}

type ViolationRepository interface {
	Append(ctx context.Context, l *model.ProctoringLog) error
	CountByType(ctx context.Context, sessionID uuid.UUID, vtype string) (int, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ProctoringLog, error)
}

type ReviewRepository interface {
	Upsert(ctx context.Context, r *model.ResultReview) error
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.ResultReview, error)
}

type SnapshotRepository interface {
	Create(ctx context.Context, s *model.WebcamSnapshot) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.WebcamSnapshot, error)
}
