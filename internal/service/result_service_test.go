package service

import (
	"context"
	"testing"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResultService(fx *fixture) *ResultService {
	return NewResultService(
		fx.sessionRepo,
		fx.testRepo,
		fx.studentRepo,
		fx.questionRepo,
		fx.violationRepo,
		fx.snapshotRepo,
		fx.reviewRepo,
		fx.mailer,
		zerolog.Nop(),
	)
}

// submitWithAnswers closes the fixture attempt with 4 correct answers,
// one wrong answer and one answer on the ungraded question.
func submitWithAnswers(t *testing.T, fx *fixture) *model.TestSession {
	t.Helper()
	ctx := context.Background()
	result := fx.start(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, fx.sessions.SaveAnswer(ctx, result.Session.ID, fx.eval[i].ID, "a", 20))
	}
	require.NoError(t, fx.sessions.SaveAnswer(ctx, result.Session.ID, fx.eval[4].ID, "b", 40))
	require.NoError(t, fx.sessions.SaveAnswer(ctx, result.Session.ID, fx.survey.ID, "c", 10))

	sess, err := fx.sessions.Submit(ctx, result.Session.ID, model.CauseManual)
	require.NoError(t, err)
	return sess
}

func TestPublishExactlyOnce(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)

	before, err := fx.rdb.LLen(ctx, "test_notify_queue").Result()
	require.NoError(t, err)

	require.NoError(t, rs.Publish(ctx, sess.ID))

	after, err := fx.rdb.LLen(ctx, "test_notify_queue").Result()
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	err = rs.Publish(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	final, err := fx.rdb.LLen(ctx, "test_notify_queue").Result()
	require.NoError(t, err)
	assert.Equal(t, after, final, "republish must not queue another mail")
}

func TestPublishUnsubmittedSession(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	result := fx.start(t)

	err := rs.Publish(context.Background(), result.Session.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMyResultHiddenUntilPublished(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)

	_, err := rs.MyResult(ctx, fx.test.ID, fx.student.ID)
	assert.ErrorIs(t, err, ErrResultsHidden)

	require.NoError(t, rs.Publish(ctx, sess.ID))

	my, err := rs.MyResult(ctx, fx.test.ID, fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.test.Title, my.TestTitle)
	assert.InDelta(t, 14.0, my.Score.Score, 0.0001)
	assert.True(t, my.Passed)
}

func TestMyResultVisibilityPolicy(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)
	require.NoError(t, rs.Publish(ctx, sess.ID))

	fx.test.ShowResultsTo = model.ShowResultsToNone
	_, err := rs.MyResult(ctx, fx.test.ID, fx.student.ID)
	assert.ErrorIs(t, err, ErrResultsHidden)

	// A score of 14 misses an 18-mark bar, so passed-only hides it.
	fx.test.ShowResultsTo = model.ShowResultsToPassed
	fx.test.PassingMarks = 18
	_, err = rs.MyResult(ctx, fx.test.ID, fx.student.ID)
	assert.ErrorIs(t, err, ErrResultsHidden)

	fx.test.PassingMarks = 12
	my, err := rs.MyResult(ctx, fx.test.ID, fx.student.ID)
	require.NoError(t, err)
	assert.True(t, my.Passed)
}

func TestDetailBreakdown(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)

	detail, err := rs.Detail(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, fx.student.ID, detail.Student.ID)
	assert.Equal(t, fx.test.Title, detail.TestTitle)
	require.Len(t, detail.Breakdown, 10)

	byQuestion := make(map[uuid.UUID]AnswerDetail, len(detail.Breakdown))
	for _, d := range detail.Breakdown {
		byQuestion[d.QuestionID] = d
	}

	correct := byQuestion[fx.eval[0].ID]
	require.NotNil(t, correct.IsCorrect)
	assert.True(t, *correct.IsCorrect)
	assert.Equal(t, "a", correct.ChosenOption)

	wrong := byQuestion[fx.eval[4].ID]
	require.NotNil(t, wrong.IsCorrect)
	assert.False(t, *wrong.IsCorrect)

	// Answered but ungraded questions report no verdict.
	survey := byQuestion[fx.survey.ID]
	assert.Equal(t, "c", survey.ChosenOption)
	assert.Nil(t, survey.IsCorrect)

	unattempted := byQuestion[fx.eval[5].ID]
	assert.Empty(t, unattempted.ChosenOption)
	assert.Nil(t, unattempted.IsCorrect)
}

func TestDetailRequiresSubmission(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	result := fx.start(t)

	_, err := rs.Detail(context.Background(), result.Session.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewLifecycle(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()

	result := fx.start(t)
	_, err := rs.Review(ctx, result.Session.ID, model.ReviewValid, "", "admin@school")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = fx.sessions.Submit(ctx, result.Session.ID, model.CauseManual)
	require.NoError(t, err)

	rev, err := rs.Review(ctx, result.Session.ID, model.ReviewDisqualified, "too many blur events", "admin@school")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewDisqualified, rev.Status)

	rev, err = rs.Review(ctx, result.Session.ID, model.ReviewValid, "cleared after call", "admin@school")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewValid, rev.Status)

	detail, err := rs.Detail(ctx, result.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Review)
	assert.Equal(t, model.ReviewValid, detail.Review.Status)
	assert.Equal(t, "cleared after call", detail.Review.Remark)
}

func TestReviewPublishedReleasesOnce(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)

	before, err := fx.rdb.LLen(ctx, "test_notify_queue").Result()
	require.NoError(t, err)

	rev, err := rs.Review(ctx, sess.ID, model.ReviewPublished, "", "admin@school")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewPublished, rev.Status)

	after, err := fx.rdb.LLen(ctx, "test_notify_queue").Result()
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	my, err := rs.MyResult(ctx, fx.test.ID, fx.student.ID)
	require.NoError(t, err)
	assert.True(t, my.Passed)

	// Repeating the verdict keeps it published without another mail.
	_, err = rs.Review(ctx, sess.ID, model.ReviewPublished, "", "admin@school")
	require.NoError(t, err)

	final, err := fx.rdb.LLen(ctx, "test_notify_queue").Result()
	require.NoError(t, err)
	assert.Equal(t, after, final)
}

func TestListResults(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)

	rows, total, err := rs.List(ctx, fx.test.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, sess.ID, row.SessionID)
	assert.Equal(t, fx.student.ExternalID, row.StudentID)
	assert.Equal(t, fx.student.Name, row.StudentName)
	assert.Equal(t, model.SessionSubmitted, row.Status)
	assert.Equal(t, model.ReviewUnderReview, row.ReviewStatus)
	require.NotNil(t, row.Score)
	assert.InDelta(t, 14.0, row.Score.Score, 0.0001)
}

func TestListResultsByInstitute(t *testing.T) {
	fx := newFixture(t)
	rs := newResultService(fx)
	ctx := context.Background()
	sess := submitWithAnswers(t, fx)

	rows, total, err := rs.ListByInstitute(ctx, fx.test.InstituteID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, sess.ID, rows[0].SessionID)
	assert.Equal(t, fx.student.ExternalID, rows[0].StudentID)

	rows, total, err = rs.ListByInstitute(ctx, uuid.New(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
}
