package model

import (
	"time"

	"github.com/google/uuid"
)

// Known violation types reported by the exam client.
const (
	ViolationTabSwitch      = "TAB_SWITCH"
	ViolationCameraOff      = "CAMERA_OFF"
	ViolationAudioNoise     = "AUDIO_NOISE"
	ViolationFullscreenExit = "FULLSCREEN_EXIT"
	ViolationWindowBlur     = "WINDOW_BLUR"
)

// ProctoringLog is one recorded violation event. Details carries
// client-supplied context (timestamps, confidence, measurements).
type ProctoringLog struct {
	ID         uuid.UUID      `json:"id"`
	SessionID  uuid.UUID      `json:"session_id"`
	StudentID  uuid.UUID      `json:"student_id"`
	Type       string         `json:"type"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
