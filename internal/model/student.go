package model

import (
	"time"

	"github.com/google/uuid"
)

// TestStudent is an exam-taker provisioned by the institute. ExternalID
// is the institute-issued identifier used for access code requests.
// AssignedTestID is nil until the student is bound to a test, either
// explicitly by an admin or implicitly on first access request when
// their class and paper set match the test's target.
type TestStudent struct {
	ID             uuid.UUID  `json:"id"`
	InstituteID    uuid.UUID  `json:"institute_id"`
	ExternalID     string     `json:"external_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	RollNumber     string     `json:"roll_number,omitempty"`
	Mobile         string     `json:"mobile,omitempty"`
	AssignedTestID *uuid.UUID `json:"assigned_test_id,omitempty"`
	AssignedClass  string     `json:"assigned_class,omitempty"`
	AssignedSet    string     `json:"assigned_set,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AssignedTo reports whether the student is already bound to the test.
func (s *TestStudent) AssignedTo(testID uuid.UUID) bool {
	return s.AssignedTestID != nil && *s.AssignedTestID == testID
}
