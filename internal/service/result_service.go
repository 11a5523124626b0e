package service

import (
	"context"
	"errors"
	"time"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/notify"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/examind/proctor-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResultSummary is one row in the admin results table.
type ResultSummary struct {
	SessionID       uuid.UUID             `json:"session_id"`
	StudentID       string                `json:"student_id"`
	StudentName     string                `json:"student_name"`
	Status          model.SessionStatus   `json:"status"`
	SubmitCause     *model.SubmitCause    `json:"submit_cause,omitempty"`
	SubmittedAt     *time.Time            `json:"submitted_at,omitempty"`
	Score           *model.ScoreBreakdown `json:"score,omitempty"`
	ResultPublished bool                  `json:"result_published"`
	ReviewStatus    model.ReviewStatus    `json:"review_status"`
}

// AnswerDetail is one graded question in the review breakdown. IsCorrect
// is nil for questions excluded from grading.
type AnswerDetail struct {
	QuestionID    uuid.UUID      `json:"question_id"`
	Sr            int            `json:"sr"`
	Text          string         `json:"text"`
	Options       []model.Option `json:"options"`
	ChosenOption  string         `json:"chosen_option,omitempty"`
	CorrectOption string         `json:"correct_option,omitempty"`
	IsCorrect     *bool          `json:"is_correct"`
}

// ResultDetail is the full admin view of one submitted attempt.
type ResultDetail struct {
	Session    *model.TestSession     `json:"session"`
	Student    *model.TestStudent     `json:"student"`
	TestTitle  string                 `json:"test_title"`
	Passed     bool                   `json:"passed"`
	Breakdown  []AnswerDetail         `json:"breakdown"`
	Violations []model.ProctoringLog  `json:"violations"`
	Snapshots  []model.WebcamSnapshot `json:"snapshots"`
	Review     *model.ResultReview    `json:"review,omitempty"`
}

// MyResult is the student-facing view of a published result.
type MyResult struct {
	TestTitle   string               `json:"test_title"`
	Score       model.ScoreBreakdown `json:"score"`
	Passed      bool                 `json:"passed"`
	SubmittedAt time.Time            `json:"submitted_at"`
}

// ResultService serves result listings, review verdicts and publication.
type ResultService struct {
	sessionRepo   repository.SessionRepository
	testRepo      repository.TestRepository
	studentRepo   repository.StudentRepository
	questionRepo  repository.QuestionRepository
	violationRepo repository.ViolationRepository
	snapshotRepo  repository.SnapshotRepository
	reviewRepo    repository.ReviewRepository
	mailer        *notify.Enqueuer
	log           zerolog.Logger
}

func NewResultService(
	sessionRepo repository.SessionRepository,
	testRepo repository.TestRepository,
	studentRepo repository.StudentRepository,
	questionRepo repository.QuestionRepository,
	violationRepo repository.ViolationRepository,
	snapshotRepo repository.SnapshotRepository,
	reviewRepo repository.ReviewRepository,
	mailer *notify.Enqueuer,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		sessionRepo:   sessionRepo,
		testRepo:      testRepo,
		studentRepo:   studentRepo,
		questionRepo:  questionRepo,
		violationRepo: violationRepo,
		snapshotRepo:  snapshotRepo,
		reviewRepo:    reviewRepo,
		mailer:        mailer,
		log:           log,
	}
}

// List returns one summary row per attempt on the test.
func (s *ResultService) List(ctx context.Context, testID uuid.UUID, page, perPage int) ([]ResultSummary, int64, error) {
	sessions, total, err := s.sessionRepo.ListByTest(ctx, testID, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	students, err := s.studentRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]model.TestStudent, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	rows := make([]ResultSummary, 0, len(sessions))
	for i := range sessions {
		sess := sessions[i]
		row := ResultSummary{
			SessionID:       sess.ID,
			Status:          sess.Status,
			SubmitCause:     sess.SubmitCause,
			SubmittedAt:     sess.SubmittedAt,
			Score:           sess.Score,
			ResultPublished: sess.ResultPublished,
			ReviewStatus:    model.ReviewUnderReview,
		}
		if st, ok := byID[sess.TestStudentID]; ok {
			row.StudentID = st.ExternalID
			row.StudentName = st.Name
		}
		if rev, err := s.reviewRepo.GetBySession(ctx, sess.ID); err == nil {
			row.ReviewStatus = rev.Status
		}
		rows = append(rows, row)
	}
	return rows, total, nil
}

// ListByInstitute returns summary rows across every test the institute
// owns, newest attempts first.
func (s *ResultService) ListByInstitute(ctx context.Context, instituteID uuid.UUID, page, perPage int) ([]ResultSummary, int64, error) {
	sessions, total, err := s.sessionRepo.ListByInstitute(ctx, instituteID, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]ResultSummary, 0, len(sessions))
	for i := range sessions {
		sess := sessions[i]
		row := ResultSummary{
			SessionID:       sess.ID,
			Status:          sess.Status,
			SubmitCause:     sess.SubmitCause,
			SubmittedAt:     sess.SubmittedAt,
			Score:           sess.Score,
			ResultPublished: sess.ResultPublished,
			ReviewStatus:    model.ReviewUnderReview,
		}
		if st, err := s.studentRepo.GetByID(ctx, sess.TestStudentID); err == nil {
			row.StudentID = st.ExternalID
			row.StudentName = st.Name
		}
		if rev, err := s.reviewRepo.GetBySession(ctx, sess.ID); err == nil {
			row.ReviewStatus = rev.Status
		}
		rows = append(rows, row)
	}
	return rows, total, nil
}

// Detail assembles the full review view for a submitted attempt.
func (s *ResultService) Detail(ctx context.Context, sessionID uuid.UUID) (*ResultDetail, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sess.Closed() || sess.Score == nil {
		return nil, ErrForbidden
	}

	test, err := s.testRepo.GetByID(ctx, sess.TestID)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, sess.TestStudentID)
	if err != nil {
		return nil, err
	}
	pool, err := s.questionRepo.ListByPaper(ctx, test.PaperID)
	if err != nil {
		return nil, err
	}
	violations, err := s.violationRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &ResultDetail{
		Session:    sess,
		Student:    student,
		TestTitle:  test.Title,
		Passed:     scoring.Passed(*sess.Score, test.PassingMarks),
		Breakdown:  buildBreakdown(sess, pool),
		Violations: violations,
		Snapshots:  snapshots,
	}
	if rev, err := s.reviewRepo.GetBySession(ctx, sessionID); err == nil {
		detail.Review = rev
	}
	return detail, nil
}

// Review records or replaces the admin verdict on a submitted attempt.
// Moving to published releases the result; repeating that verdict keeps
// it published without notifying the student again.
func (s *ResultService) Review(ctx context.Context, sessionID uuid.UUID, status model.ReviewStatus, remark, reviewedBy string) (*model.ResultReview, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sess.Closed() {
		return nil, ErrForbidden
	}

	rev := &model.ResultReview{
		ID:         uuid.New(),
		SessionID:  sessionID,
		Status:     status,
		Remark:     remark,
		ReviewedBy: reviewedBy,
	}
	if err := s.reviewRepo.Upsert(ctx, rev); err != nil {
		return nil, err
	}

	if status == model.ReviewPublished {
		if err := s.Publish(ctx, sessionID); err != nil && !errors.Is(err, ErrAlreadyPublished) {
			return nil, err
		}
	}
	return rev, nil
}

// Publish releases the result to the student exactly once and queues the
// notification mail. A second publish returns ErrAlreadyPublished.
func (s *ResultService) Publish(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !sess.Closed() || sess.Score == nil {
		return ErrForbidden
	}

	ok, err := s.sessionRepo.MarkResultPublished(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyPublished
	}

	test, err := s.testRepo.GetByID(ctx, sess.TestID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("load test for result mail")
		return nil
	}
	student, err := s.studentRepo.GetByID(ctx, sess.TestStudentID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("load student for result mail")
		return nil
	}

	passed := scoring.Passed(*sess.Score, test.PassingMarks)
	s.mailer.Enqueue(ctx, notify.ResultNotification(student.Email, student.Name, test.Title, *sess.Score, passed))
	return nil
}

// MyResult returns the student's own published result, subject to the
// test's visibility policy.
func (s *ResultService) MyResult(ctx context.Context, testID, studentID uuid.UUID) (*MyResult, error) {
	sess, err := s.sessionRepo.GetByTestAndStudent(ctx, testID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sess.Closed() || sess.Score == nil || !sess.ResultPublished {
		return nil, ErrResultsHidden
	}

	test, err := s.testRepo.GetByID(ctx, sess.TestID)
	if err != nil {
		return nil, err
	}

	passed := scoring.Passed(*sess.Score, test.PassingMarks)
	switch test.ShowResultsTo {
	case model.ShowResultsToAll:
	case model.ShowResultsToPassed:
		if !passed {
			return nil, ErrResultsHidden
		}
	default:
		return nil, ErrResultsHidden
	}

	return &MyResult{
		TestTitle:   test.Title,
		Score:       *sess.Score,
		Passed:      passed,
		SubmittedAt: *sess.SubmittedAt,
	}, nil
}

func buildBreakdown(sess *model.TestSession, pool []model.Question) []AnswerDetail {
	byID := make(map[uuid.UUID]model.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}

	details := make([]AnswerDetail, 0, len(sess.QuestionOrder))
	for _, id := range sess.QuestionOrder {
		q, ok := byID[id]
		if !ok {
			continue
		}

		d := AnswerDetail{
			QuestionID:    q.ID,
			Sr:            q.Sr,
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectAnswer,
		}
		if a, answered := sess.Answers[q.ID.String()]; answered {
			d.ChosenOption = a.OptionID
			if q.IsEvaluatable {
				correct := a.OptionID == q.CorrectAnswer
				d.IsCorrect = &correct
			}
		}
		details = append(details, d)
	}
	return details
}
