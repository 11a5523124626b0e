package model

import (
	"time"

	"github.com/google/uuid"
)

type TestStatus string

const (
	TestStatusDraft     TestStatus = "draft"
	TestStatusScheduled TestStatus = "scheduled"
	TestStatusActive    TestStatus = "active"
	TestStatusCompleted TestStatus = "completed"
	TestStatusArchived  TestStatus = "archived"
)

// ShowResultsTo controls which students may read their own result.
type ShowResultsTo string

const (
	ShowResultsToNone   ShowResultsTo = "none"
	ShowResultsToAll    ShowResultsTo = "all"
	ShowResultsToPassed ShowResultsTo = "passed"
)

// MarkingScheme holds the per-question point values applied at submit time.
type MarkingScheme struct {
	Correct     float64 `json:"correct"`
	Incorrect   float64 `json:"incorrect"`
	Unattempted float64 `json:"unattempted"`
}

// DefaultMarkingScheme matches the common 4 / -1 / 0 grading pattern.
func DefaultMarkingScheme() MarkingScheme {
	return MarkingScheme{Correct: 4, Incorrect: -1, Unattempted: 0}
}

// ViolationRules maps a tolerated violation type to the occurrence count
// that triggers auto-submission. Types absent from the map are only
// logged, unless configured as immediately terminal.
type ViolationRules map[string]int

// ProctoringConfig enables browser-side proctoring features for a test.
type ProctoringConfig struct {
	RequireCamera     bool `json:"require_camera"`
	RequireFullscreen bool `json:"require_fullscreen"`
	SnapshotInterval  int  `json:"snapshot_interval_seconds"`
}

// Test is a scheduled exam instance. MarkingScheme, ViolationRules and
// ProctoringConfig are stored as JSONB.
type Test struct {
	ID               uuid.UUID        `json:"id"`
	InstituteID      uuid.UUID        `json:"institute_id"`
	PaperID          uuid.UUID        `json:"paper_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	TargetClass      string           `json:"target_class,omitempty"`
	TargetSet        string           `json:"target_set,omitempty"`
	Status           TestStatus       `json:"status"`
	StartAt          time.Time        `json:"start_at"`
	EndAt            time.Time        `json:"end_at"`
	DurationMinutes  int              `json:"duration_minutes"`
	MarkingScheme    MarkingScheme    `json:"marking_scheme"`
	ViolationRules   ViolationRules   `json:"violation_rules"`
	ShuffleQuestions bool             `json:"shuffle_questions"`
	ShowResultsTo    ShowResultsTo    `json:"show_results_to"`
	TotalMarks       float64          `json:"total_marks"`
	PassingMarks     float64          `json:"passing_marks"`
	Proctoring       ProctoringConfig `json:"proctoring"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Targets reports whether a student's class and paper set fall under
// this test's target, enabling implicit assignment.
func (t *Test) Targets(class, set string) bool {
	return t.TargetClass != "" && t.TargetClass == class && t.TargetSet == set
}

// WindowOpen reports whether now falls inside the test's start/end window
// and the test is in a joinable state.
func (t *Test) WindowOpen(now time.Time) bool {
	if t.Status != TestStatusActive {
		return false
	}
	return !now.Before(t.StartAt) && now.Before(t.EndAt)
}

// Duration returns the per-student time allowance.
func (t *Test) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}
