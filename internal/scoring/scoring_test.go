package scoring

import (
	"testing"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func question(correct string, evaluatable bool) model.Question {
	return model.Question{
		ID:            uuid.New(),
		Level:         model.LevelMedium,
		CorrectAnswer: correct,
		IsEvaluatable: evaluatable,
	}
}

func answer(optionID string) model.Answer {
	return model.Answer{OptionID: optionID}
}

func TestGradeMixedAttempt(t *testing.T) {
	// 10 questions, 6 answered: 4 correct, 1 wrong, 1 on a question that
	// is not graded. Scheme 4 / -1 / 0 should land on 14.
	pool := make([]model.Question, 0, 10)
	answers := map[string]model.Answer{}

	for i := 0; i < 4; i++ {
		q := question("a", true)
		pool = append(pool, q)
		answers[q.ID.String()] = answer("a")
	}

	wrong := question("a", true)
	pool = append(pool, wrong)
	answers[wrong.ID.String()] = answer("b")

	survey := question("", false)
	pool = append(pool, survey)
	answers[survey.ID.String()] = answer("a")

	for i := 0; i < 4; i++ {
		pool = append(pool, question("a", true))
	}

	b := Grade(pool, answers, model.MarkingScheme{Correct: 4, Incorrect: -1, Unattempted: 0})

	assert.Equal(t, 6, b.Attempted)
	assert.Equal(t, 4, b.Correct)
	assert.Equal(t, 2, b.Incorrect)
	assert.Equal(t, 4, b.Unattempted)
	assert.InDelta(t, 14.0, b.Score, 0.0001)
	assert.InDelta(t, 36.0, b.MaxScore, 0.0001)
}

func TestGradeNoAnswers(t *testing.T) {
	pool := []model.Question{question("a", true), question("b", true)}

	b := Grade(pool, nil, model.DefaultMarkingScheme())

	assert.Equal(t, 0, b.Attempted)
	assert.Equal(t, 2, b.Unattempted)
	assert.Zero(t, b.Score)
	assert.Zero(t, b.Accuracy)
}

func TestGradeUnattemptedPenalty(t *testing.T) {
	pool := []model.Question{question("a", true), question("a", true)}
	q := pool[0]
	answers := map[string]model.Answer{q.ID.String(): answer("a")}

	b := Grade(pool, answers, model.MarkingScheme{Correct: 2, Incorrect: -1, Unattempted: -0.5})

	assert.InDelta(t, 1.5, b.Score, 0.0001)
}

func TestGradeAccuracy(t *testing.T) {
	pool := []model.Question{question("a", true), question("a", true), question("a", true), question("a", true)}
	answers := map[string]model.Answer{
		pool[0].ID.String(): answer("a"),
		pool[1].ID.String(): answer("a"),
		pool[2].ID.String(): answer("x"),
	}

	b := Grade(pool, answers, model.DefaultMarkingScheme())

	assert.InDelta(t, 66.6666, b.Accuracy, 0.01)
}

func TestPercentageAndPassed(t *testing.T) {
	b := model.ScoreBreakdown{Score: 14, MaxScore: 40}
	assert.InDelta(t, 35.0, Percentage(b), 0.0001)
	assert.True(t, Passed(b, 14))
	assert.False(t, Passed(b, 14.5))

	negative := model.ScoreBreakdown{Score: -3, MaxScore: 40}
	assert.Zero(t, Percentage(negative))
	assert.True(t, Passed(negative, -3))

	empty := model.ScoreBreakdown{}
	assert.Zero(t, Percentage(empty))
	assert.False(t, Passed(empty, 1))
}
