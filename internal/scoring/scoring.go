// Package scoring grades a submitted attempt against its question pool
// and the marking scheme frozen at session start.
package scoring

import "github.com/examind/proctor-backend/internal/model"

// Grade computes the final score breakdown. An answer is correct only
// when its question is evaluatable and the chosen option matches the
// answer key; any other saved answer counts as incorrect. Questions with
// no saved answer count as unattempted.
func Grade(questions []model.Question, answers map[string]model.Answer, scheme model.MarkingScheme) model.ScoreBreakdown {
	var b model.ScoreBreakdown

	evaluatable := 0
	for _, q := range questions {
		if q.IsEvaluatable {
			evaluatable++
		}

		a, ok := answers[q.ID.String()]
		if !ok {
			b.Unattempted++
			continue
		}

		b.Attempted++
		if q.IsEvaluatable && a.OptionID == q.CorrectAnswer {
			b.Correct++
		} else {
			b.Incorrect++
		}
	}

	b.Score = float64(b.Correct)*scheme.Correct +
		float64(b.Incorrect)*scheme.Incorrect +
		float64(b.Unattempted)*scheme.Unattempted
	b.MaxScore = float64(evaluatable) * scheme.Correct

	if b.Attempted > 0 {
		b.Accuracy = float64(b.Correct) / float64(b.Attempted) * 100
	}
	return b
}

// Percentage returns the score as a share of the maximum, floored at
// zero for negative totals.
func Percentage(b model.ScoreBreakdown) float64 {
	if b.MaxScore <= 0 {
		return 0
	}
	pct := b.Score / b.MaxScore * 100
	if pct < 0 {
		return 0
	}
	return pct
}

// Passed reports whether the score reaches the test's passing marks.
func Passed(b model.ScoreBreakdown, passingMarks float64) bool {
	return b.Score >= passingMarks
}
