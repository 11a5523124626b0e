package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in-progress"
	SessionSubmitted  SessionStatus = "submitted"
)

// SubmitCause records why a session was closed.
type SubmitCause string

const (
	CauseManual          SubmitCause = "manual"
	CauseAutoTime        SubmitCause = "auto-time"
	CauseAutoViolation   SubmitCause = "auto-violation"
	CauseDisconnect      SubmitCause = "disconnect"
	CauseAdminTerminated SubmitCause = "admin-terminated"
)

// Answer is one saved response, keyed by question ID in the session's
// answers JSONB object. Re-saving overwrites the previous value.
// TimeSpent is the client-reported seconds spent on the question.
type Answer struct {
	OptionID   string    `json:"option_id"`
	TimeSpent  int       `json:"time_spent"`
	AnsweredAt time.Time `json:"answered_at"`
}

// ScoreBreakdown is computed once at submission and stored as JSONB.
type ScoreBreakdown struct {
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
	Attempted   int     `json:"attempted"`
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Unattempted int     `json:"unattempted"`
	Accuracy    float64 `json:"accuracy"`
}

// TestSession is a student's single attempt at a test. The question order
// and marking scheme are frozen at start so later pool or test edits
// never affect a running or graded attempt.
type TestSession struct {
	ID              uuid.UUID         `json:"id"`
	TestID          uuid.UUID         `json:"test_id"`
	TestStudentID   uuid.UUID         `json:"test_student_id"`
	Status          SessionStatus     `json:"status"`
	StartedAt       time.Time         `json:"started_at"`
	DeadlineAt      time.Time         `json:"deadline_at"`
	SubmittedAt     *time.Time        `json:"submitted_at,omitempty"`
	SubmitCause     *SubmitCause      `json:"submit_cause,omitempty"`
	QuestionOrder   []uuid.UUID       `json:"question_order"`
	MarkingScheme   MarkingScheme     `json:"marking_scheme"`
	Answers         map[string]Answer `json:"answers"`
	Score           *ScoreBreakdown   `json:"score,omitempty"`
	ResultPublished bool              `json:"result_published"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Closed reports whether the session can no longer accept answers.
func (s *TestSession) Closed() bool {
	return s.Status == SessionSubmitted
}

// RemainingTime returns the time left before the deadline, floored at zero.
func (s *TestSession) RemainingTime(now time.Time) time.Duration {
	if s.Closed() {
		return 0
	}
	left := s.DeadlineAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
