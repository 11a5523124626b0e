package model

import (
	"time"

	"github.com/google/uuid"
)

type ReviewStatus string

const (
	ReviewUnderReview  ReviewStatus = "under-review"
	ReviewValid        ReviewStatus = "valid"
	ReviewDisqualified ReviewStatus = "disqualified"
	ReviewPublished    ReviewStatus = "published"
)

// ResultReview tracks the admin verdict on a submitted session. Moving
// a review to published is what releases the result to the student.
type ResultReview struct {
	ID         uuid.UUID    `json:"id"`
	SessionID  uuid.UUID    `json:"session_id"`
	Status     ReviewStatus `json:"status"`
	Remark     string       `json:"remark,omitempty"`
	ReviewedBy string       `json:"reviewed_by"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
