package model

import (
	"time"

	"github.com/google/uuid"
)

// WebcamSnapshot records one uploaded proctoring photo. URL and PublicID
// point at the external image store.
type WebcamSnapshot struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	StudentID  uuid.UUID `json:"student_id"`
	URL        string    `json:"url"`
	PublicID   string    `json:"public_id"`
	CapturedAt time.Time `json:"captured_at"`
}
