package service

import (
	"context"
	"sync"
	"time"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/google/uuid"
)

type fakeTestRepo struct {
	tests map[uuid.UUID]*model.Test
}

func newFakeTestRepo(tests ...*model.Test) *fakeTestRepo {
	r := &fakeTestRepo{tests: map[uuid.UUID]*model.Test{}}
	for _, t := range tests {
		r.tests[t.ID] = t
	}
	return r
}

func (r *fakeTestRepo) Create(ctx context.Context, t *model.Test) error {
	r.tests[t.ID] = t
	return nil
}

func (r *fakeTestRepo) Update(ctx context.Context, t *model.Test) error {
	if _, ok := r.tests[t.ID]; !ok {
		return repository.ErrNotFound
	}
	r.tests[t.ID] = t
	return nil
}

func (r *fakeTestRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t, ok := r.tests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *fakeTestRepo) ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.Test, int64, error) {
	var out []model.Test
	for _, t := range r.tests {
		if t.InstituteID == instituteID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.tests[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tests, id)
	return nil
}

type fakeQuestionRepo struct {
	papers    map[uuid.UUID]*model.QuestionPaper
	questions []*model.Question
	locked    bool
}

func newFakeQuestionRepo(questions ...*model.Question) *fakeQuestionRepo {
	return &fakeQuestionRepo{
		papers:    map[uuid.UUID]*model.QuestionPaper{},
		questions: questions,
	}
}

func (r *fakeQuestionRepo) CreatePaper(ctx context.Context, p *model.QuestionPaper) error {
	r.papers[p.ID] = p
	return nil
}

func (r *fakeQuestionRepo) GetPaper(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error) {
	p, ok := r.papers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakeQuestionRepo) ListPapersByInstitute(ctx context.Context, instituteID uuid.UUID) ([]model.QuestionPaper, error) {
	var out []model.QuestionPaper
	for _, p := range r.papers {
		if p.InstituteID == instituteID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	for _, existing := range r.questions {
		if existing.PaperID == q.PaperID && existing.Sr == q.Sr {
			return repository.ErrDuplicate
		}
	}
	r.questions = append(r.questions, q)
	return nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, q *model.Question) error {
	for _, existing := range r.questions {
		if existing.ID != q.ID && existing.PaperID == q.PaperID && existing.Sr == q.Sr {
			return repository.ErrDuplicate
		}
	}
	for i, existing := range r.questions {
		if existing.ID == q.ID {
			r.questions[i] = q
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, q := range r.questions {
		if q.ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	for _, q := range r.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeQuestionRepo) ListByPaper(ctx context.Context, paperID uuid.UUID) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.PaperID == paperID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) PaperLocked(ctx context.Context, paperID uuid.UUID) (bool, error) {
	return r.locked, nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*model.TestStudent
}

func newFakeStudentRepo(students ...*model.TestStudent) *fakeStudentRepo {
	r := &fakeStudentRepo{students: map[uuid.UUID]*model.TestStudent{}}
	for _, s := range students {
		r.students[s.ID] = s
	}
	return r
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *model.TestStudent) error {
	for _, existing := range r.students {
		if existing.ExternalID == s.ExternalID {
			return repository.ErrDuplicate
		}
	}
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.TestStudent, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) GetByExternalID(ctx context.Context, externalID string) (*model.TestStudent, error) {
	for _, s := range r.students {
		if s.ExternalID == externalID {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStudentRepo) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.TestStudent, error) {
	var out []model.TestStudent
	for _, s := range r.students {
		if s.AssignedTo(testID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) BindTest(ctx context.Context, studentID, testID uuid.UUID) (bool, error) {
	s, ok := r.students[studentID]
	if !ok {
		return false, nil
	}
	if s.AssignedTestID != nil && *s.AssignedTestID != testID {
		return false, nil
	}
	id := testID
	s.AssignedTestID = &id
	return true, nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.students, id)
	return nil
}

type fakeSessionRepo struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*model.TestSession
	routing    map[uuid.UUID]*repository.SessionRouting
	institutes map[uuid.UUID]uuid.UUID // testID -> instituteID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:   map[uuid.UUID]*model.TestSession{},
		routing:    map[uuid.UUID]*repository.SessionRouting{},
		institutes: map[uuid.UUID]uuid.UUID{},
	}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *model.TestSession) (*model.TestSession, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sessions {
		if existing.TestID == s.TestID && existing.TestStudentID == s.TestStudentID {
			return existing, false, nil
		}
	}

	s.Status = model.SessionInProgress
	s.Answers = map[string]model.Answer{}
	r.sessions[s.ID] = s
	return s, true, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) GetByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) (*model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.TestID == testID && s.TestStudentID == studentID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) UpsertAnswer(ctx context.Context, sessionID uuid.UUID, questionID string, a model.Answer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != model.SessionInProgress {
		return false, nil
	}
	s.Answers[questionID] = a
	return true, nil
}

func (r *fakeSessionRepo) Finalize(ctx context.Context, sessionID uuid.UUID, cause model.SubmitCause, score model.ScoreBreakdown, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != model.SessionInProgress {
		return false, nil
	}
	s.Status = model.SessionSubmitted
	s.SubmitCause = &cause
	s.Score = &score
	s.SubmittedAt = &at
	return true, nil
}

func (r *fakeSessionRepo) ListByTest(ctx context.Context, testID uuid.UUID, page, perPage int) ([]model.TestSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.TestSession
	for _, s := range r.sessions {
		if s.TestID == testID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSessionRepo) ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]model.TestSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.TestSession
	for _, s := range r.sessions {
		if r.institutes[s.TestID] == instituteID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSessionRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.TestSession
	for _, s := range r.sessions {
		if s.Status == model.SessionInProgress && !s.DeadlineAt.After(now) {
			out = append(out, *s)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) MarkResultPublished(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != model.SessionSubmitted || s.ResultPublished {
		return false, nil
	}
	s.ResultPublished = true
	return true, nil
}

func (r *fakeSessionRepo) GetRouting(ctx context.Context, sessionID uuid.UUID) (*repository.SessionRouting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	routing, ok := r.routing[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return routing, nil
}

type fakeViolationRepo struct {
	mu   sync.Mutex
	logs []model.ProctoringLog
}

func (r *fakeViolationRepo) Append(ctx context.Context, l *model.ProctoringLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *fakeViolationRepo) CountByType(ctx context.Context, sessionID uuid.UUID, vtype string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, l := range r.logs {
		if l.SessionID == sessionID && l.Type == vtype {
			count++
		}
	}
	return count, nil
}

func (r *fakeViolationRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ProctoringLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.ProctoringLog
	for _, l := range r.logs {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.ResultReview
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[uuid.UUID]*model.ResultReview{}}
}

func (r *fakeReviewRepo) Upsert(ctx context.Context, rev *model.ResultReview) error {
	if existing, ok := r.reviews[rev.SessionID]; ok {
		rev.ID = existing.ID
	}
	r.reviews[rev.SessionID] = rev
	return nil
}

func (r *fakeReviewRepo) GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.ResultReview, error) {
	rev, ok := r.reviews[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rev, nil
}

type fakeSnapshotRepo struct {
	snapshots []model.WebcamSnapshot
}

func (r *fakeSnapshotRepo) Create(ctx context.Context, s *model.WebcamSnapshot) error {
	r.snapshots = append(r.snapshots, *s)
	return nil
}

func (r *fakeSnapshotRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.WebcamSnapshot, error) {
	var out []model.WebcamSnapshot
	for _, s := range r.snapshots {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}
