package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examind/proctor-backend/internal/hub"
	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/notify"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/examind/proctor-backend/internal/scoring"
	"github.com/examind/proctor-backend/internal/sequencer"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuestionView is a question as shown to a student, answer key stripped.
type QuestionView struct {
	ID      uuid.UUID           `json:"id"`
	Sr      int                 `json:"sr"`
	Level   model.QuestionLevel `json:"level"`
	Text    string              `json:"text"`
	Image   string              `json:"image,omitempty"`
	Options []model.Option      `json:"options"`
}

// StartResult is the full payload a client needs to render the attempt.
type StartResult struct {
	Session          *model.TestSession `json:"session"`
	Questions        []QuestionView     `json:"questions"`
	Resumed          bool               `json:"resumed"`
	RemainingSeconds int                `json:"remaining_seconds"`
}

// SessionService owns the attempt lifecycle: start, answer, submit.
type SessionService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	studentRepo  repository.StudentRepository
	sessionRepo  repository.SessionRepository
	hub          *hub.Hub
	mailer       *notify.Enqueuer
	log          zerolog.Logger
	now          func() time.Time
}

func NewSessionService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	studentRepo repository.StudentRepository,
	sessionRepo repository.SessionRepository,
	h *hub.Hub,
	mailer *notify.Enqueuer,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		studentRepo:  studentRepo,
		sessionRepo:  sessionRepo,
		hub:          h,
		mailer:       mailer,
		log:          log,
		now:          time.Now,
	}
}

// Start opens the student's attempt, or resumes the existing one. The
// question order and marking scheme are frozen on first start.
func (s *SessionService) Start(ctx context.Context, testID, studentID uuid.UUID) (*StartResult, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// An inactive test is indistinguishable from a missing one; 403 is
	// reserved for an active test whose window is not open yet.
	if test.Status != model.TestStatusActive {
		return nil, ErrNotFound
	}

	now := s.now()
	if !test.WindowOpen(now) {
		return nil, ErrTestNotActive
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !student.AssignedTo(testID) {
		return nil, ErrForbidden
	}

	pool, err := s.questionRepo.ListByPaper(ctx, test.PaperID)
	if err != nil {
		return nil, err
	}

	deadline := now.Add(test.Duration())
	if deadline.After(test.EndAt) {
		deadline = test.EndAt
	}

	sess, created, err := s.sessionRepo.Create(ctx, &model.TestSession{
		ID:            uuid.New(),
		TestID:        testID,
		TestStudentID: studentID,
		StartedAt:     now,
		DeadlineAt:    deadline,
		QuestionOrder: sequencer.Order(testID, studentID, pool),
		MarkingScheme: test.MarkingScheme,
	})
	if err != nil {
		return nil, err
	}

	if sess.Closed() {
		return nil, ErrSessionClosed
	}
	if sess.RemainingTime(now) == 0 {
		if _, err := s.submit(ctx, sess, model.CauseAutoTime); err != nil {
			s.log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("finalize overdue session on resume")
		}
		return nil, ErrSessionClosed
	}

	s.hub.Broadcast(hub.AdminRoom(test.InstituteID), hub.Event{
		Name: hub.EventStudentJoined,
		Payload: map[string]any{
			"session_id":  sess.ID,
			"test_id":     testID,
			"student_id":  student.ExternalID,
			"name":        student.Name,
			"resumed":     !created,
			"deadline_at": sess.DeadlineAt,
		},
	})

	return &StartResult{
		Session:          sess,
		Questions:        orderedViews(sess.QuestionOrder, pool),
		Resumed:          !created,
		RemainingSeconds: int(sess.RemainingTime(now).Seconds()),
	}, nil
}

// SaveAnswer upserts one answer. The latest save for a question wins,
// timeSpent included.
func (s *SessionService) SaveAnswer(ctx context.Context, sessionID, questionID uuid.UUID, optionID string, timeSpent int) error {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Closed() {
		return ErrSessionClosed
	}

	now := s.now()
	if sess.RemainingTime(now) == 0 {
		if _, err := s.submit(ctx, sess, model.CauseAutoTime); err != nil {
			s.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("finalize overdue session on save")
		}
		return ErrSessionClosed
	}

	if !containsID(sess.QuestionOrder, questionID) {
		return ErrQuestionNotInPool
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotInPool
		}
		return err
	}
	if !hasOption(question.Options, optionID) {
		return ErrInvalidOption
	}

	ok, err := s.sessionRepo.UpsertAnswer(ctx, sessionID, questionID.String(), model.Answer{
		OptionID:   optionID,
		TimeSpent:  timeSpent,
		AnsweredAt: now,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionClosed
	}
	return nil
}

// Submit closes the attempt with the given cause. A session that is
// already closed rejects the call.
func (s *SessionService) Submit(ctx context.Context, sessionID uuid.UUID, cause model.SubmitCause) (*model.TestSession, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Closed() {
		return nil, ErrSessionClosed
	}
	return s.submit(ctx, sess, cause)
}

// AutoSubmit closes the attempt on behalf of the proctoring policy or a
// timer. Racing an already closed session returns the existing result
// unchanged.
func (s *SessionService) AutoSubmit(ctx context.Context, sessionID uuid.UUID, cause model.SubmitCause) (*model.TestSession, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Closed() {
		return sess, nil
	}
	return s.submit(ctx, sess, cause)
}

// RemainingTime reports seconds left on the clock. Reading time on an
// overdue session finalizes it.
func (s *SessionService) RemainingTime(ctx context.Context, sessionID uuid.UUID) (time.Duration, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if sess.Closed() {
		return 0, nil
	}

	left := sess.RemainingTime(s.now())
	if left == 0 {
		if _, err := s.submit(ctx, sess, model.CauseAutoTime); err != nil {
			return 0, err
		}
	}
	return left, nil
}

// Terminate force-submits a session on an admin's order, telling the
// student's client to stop first.
func (s *SessionService) Terminate(ctx context.Context, sessionID uuid.UUID) (*model.TestSession, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Closed() {
		return sess, nil
	}

	s.hub.Broadcast(hub.SessionRoom(sessionID), hub.Event{
		Name:    hub.EventTerminateTest,
		Payload: map[string]any{"session_id": sessionID},
	})
	return s.submit(ctx, sess, model.CauseAdminTerminated)
}

// SweepOverdue finalizes every in-progress session past its deadline.
// Returns the number of sessions closed.
func (s *SessionService) SweepOverdue(ctx context.Context) (int, error) {
	overdue, err := s.sessionRepo.ListOverdue(ctx, s.now(), 100)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range overdue {
		sess := overdue[i]
		if _, err := s.submit(ctx, &sess, model.CauseAutoTime); err != nil {
			s.log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("sweep overdue session")
			continue
		}
		closed++
	}
	return closed, nil
}

// Routing resolves the monitoring room coordinates for a session.
func (s *SessionService) Routing(ctx context.Context, sessionID uuid.UUID) (*repository.SessionRouting, error) {
	routing, err := s.sessionRepo.GetRouting(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return routing, nil
}

// Get loads one session by ID.
func (s *SessionService) Get(ctx context.Context, sessionID uuid.UUID) (*model.TestSession, error) {
	return s.get(ctx, sessionID)
}

func (s *SessionService) get(ctx context.Context, sessionID uuid.UUID) (*model.TestSession, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// submit grades and finalizes an in-progress session. Losing the
// finalize race returns the winner's row without error.
func (s *SessionService) submit(ctx context.Context, sess *model.TestSession, cause model.SubmitCause) (*model.TestSession, error) {
	test, err := s.testRepo.GetByID(ctx, sess.TestID)
	if err != nil {
		return nil, fmt.Errorf("load test for grading: %w", err)
	}

	pool, err := s.questionRepo.ListByPaper(ctx, test.PaperID)
	if err != nil {
		return nil, fmt.Errorf("load pool for grading: %w", err)
	}

	breakdown := scoring.Grade(frozenPool(sess.QuestionOrder, pool), sess.Answers, sess.MarkingScheme)
	at := s.now()

	ok, err := s.sessionRepo.Finalize(ctx, sess.ID, cause, breakdown, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.get(ctx, sess.ID)
	}

	sess.Status = model.SessionSubmitted
	sess.SubmitCause = &cause
	sess.SubmittedAt = &at
	sess.Score = &breakdown

	if cause != model.CauseManual {
		payload := map[string]any{"session_id": sess.ID, "cause": cause}
		s.hub.Broadcast(hub.SessionRoom(sess.ID), hub.Event{Name: hub.EventTestAutoSubmitted, Payload: payload})
		s.hub.Broadcast(hub.AdminRoom(test.InstituteID), hub.Event{Name: hub.EventAutoSubmitAlert, Payload: payload})
	}

	if student, err := s.studentRepo.GetByID(ctx, sess.TestStudentID); err == nil {
		s.mailer.Enqueue(ctx, notify.SubmissionConfirmation(student.Email, student.Name, test.Title, at))
	} else {
		s.log.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("load student for confirmation mail")
	}

	s.log.Info().
		Str("session_id", sess.ID.String()).
		Str("cause", string(cause)).
		Float64("score", breakdown.Score).
		Msg("session submitted")
	return sess, nil
}

// frozenPool restricts the current paper contents to the questions the
// attempt was started with.
func frozenPool(order []uuid.UUID, pool []model.Question) []model.Question {
	inOrder := make(map[uuid.UUID]struct{}, len(order))
	for _, id := range order {
		inOrder[id] = struct{}{}
	}
	out := make([]model.Question, 0, len(order))
	for _, q := range pool {
		if _, ok := inOrder[q.ID]; ok {
			out = append(out, q)
		}
	}
	return out
}

func orderedViews(order []uuid.UUID, pool []model.Question) []QuestionView {
	byID := make(map[uuid.UUID]model.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}
	views := make([]QuestionView, 0, len(order))
	for _, id := range order {
		q, ok := byID[id]
		if !ok {
			continue
		}
		views = append(views, QuestionView{
			ID:      q.ID,
			Sr:      q.Sr,
			Level:   q.Level,
			Text:    q.Text,
			Image:   q.Image,
			Options: q.Options,
		})
	}
	return views
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func hasOption(options []model.Option, optionID string) bool {
	for _, o := range options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
