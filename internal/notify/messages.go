package notify

import (
	"fmt"
	"time"

	"github.com/examind/proctor-backend/internal/model"
)

// AccessCode builds the one-time code email sent on access requests.
func AccessCode(to, name, code string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Your exam access code",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>Your access code is <strong>%s</strong>.</p>
<p>It expires in %d minutes and can be used once.</p>`,
			name, code, int(ttl.Minutes()),
		),
	}
}

// StudentCredentials tells a newly assigned student how to sign in.
func StudentCredentials(to, name, testTitle, externalID string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("You are registered for %s", testTitle),
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>You have been registered for <strong>%s</strong>.</p>
<p>Sign in with your student ID <strong>%s</strong> and request an access code when the test opens.</p>`,
			name, testTitle, externalID,
		),
	}
}

// SubmissionConfirmation acknowledges a closed attempt.
func SubmissionConfirmation(to, name, testTitle string, at time.Time) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Submission received for %s", testTitle),
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>Your submission for <strong>%s</strong> was received at %s.</p>
<p>Results will be shared once they are published.</p>`,
			name, testTitle, at.UTC().Format(time.RFC1123),
		),
	}
}

// ResultNotification shares the published score with the student.
func ResultNotification(to, name, testTitle string, b model.ScoreBreakdown, passed bool) Message {
	verdict := "Not cleared"
	if passed {
		verdict = "Cleared"
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your result for %s", testTitle),
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>Your result for <strong>%s</strong> has been published.</p>
<ul>
<li>Score: %.2f / %.2f</li>
<li>Correct: %d</li>
<li>Incorrect: %d</li>
<li>Unattempted: %d</li>
<li>Accuracy: %.1f%%</li>
<li>Status: %s</li>
</ul>`,
			name, testTitle, b.Score, b.MaxScore, b.Correct, b.Incorrect, b.Unattempted, b.Accuracy, verdict,
		),
	}
}
