package service

import (
	"context"
	"errors"
	"time"

	"github.com/examind/proctor-backend/internal/hub"
	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Violation outcomes.
const (
	ActionLogged        = "logged"
	ActionWarning       = "warning"
	ActionAutoSubmitted = "auto-submitted"
)

// ViolationOutcome tells the client what the report triggered.
type ViolationOutcome struct {
	Action string `json:"action"`
	Type   string `json:"type"`
	Count  int    `json:"count,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ViolationService applies the two-tier violation policy: immediately
// terminal types close the session on first sight, tolerated types count
// against the test's per-type limit.
type ViolationService struct {
	sessionRepo   repository.SessionRepository
	testRepo      repository.TestRepository
	violationRepo repository.ViolationRepository
	sessions      *SessionService
	hub           *hub.Hub
	immediate     map[string]struct{}
	log           zerolog.Logger
	now           func() time.Time
}

func NewViolationService(
	sessionRepo repository.SessionRepository,
	testRepo repository.TestRepository,
	violationRepo repository.ViolationRepository,
	sessions *SessionService,
	h *hub.Hub,
	immediateTypes []string,
	log zerolog.Logger,
) *ViolationService {
	immediate := make(map[string]struct{}, len(immediateTypes))
	for _, t := range immediateTypes {
		immediate[t] = struct{}{}
	}
	return &ViolationService{
		sessionRepo:   sessionRepo,
		testRepo:      testRepo,
		violationRepo: violationRepo,
		sessions:      sessions,
		hub:           h,
		immediate:     immediate,
		log:           log,
		now:           time.Now,
	}
}

// Report records one violation and decides its consequence. Every report
// is logged before any decision so the audit trail survives auto-submits.
func (s *ViolationService) Report(ctx context.Context, sessionID uuid.UUID, vtype string, details map[string]any) (*ViolationOutcome, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sess.Closed() {
		return nil, ErrSessionClosed
	}

	test, err := s.testRepo.GetByID(ctx, sess.TestID)
	if err != nil {
		return nil, err
	}

	occurredAt := s.now()
	if err := s.violationRepo.Append(ctx, &model.ProctoringLog{
		ID:         uuid.New(),
		SessionID:  sessionID,
		StudentID:  sess.TestStudentID,
		Type:       vtype,
		Details:    details,
		OccurredAt: occurredAt,
	}); err != nil {
		return nil, err
	}

	s.hub.Broadcast(hub.AdminRoom(test.InstituteID), hub.Event{
		Name: hub.EventViolationAlert,
		Payload: map[string]any{
			"session_id":  sessionID,
			"type":        vtype,
			"occurred_at": occurredAt,
		},
	})

	if _, terminal := s.immediate[vtype]; terminal {
		if _, err := s.sessions.AutoSubmit(ctx, sessionID, model.CauseAutoViolation); err != nil {
			return nil, err
		}
		s.log.Info().
			Str("session_id", sessionID.String()).
			Str("type", vtype).
			Msg("terminal violation, session auto-submitted")
		return &ViolationOutcome{Action: ActionAutoSubmitted, Type: vtype}, nil
	}

	limit, tolerated := test.ViolationRules[vtype]
	if !tolerated {
		return &ViolationOutcome{Action: ActionLogged, Type: vtype}, nil
	}

	count, err := s.violationRepo.CountByType(ctx, sessionID, vtype)
	if err != nil {
		return nil, err
	}

	if count >= limit {
		if _, err := s.sessions.AutoSubmit(ctx, sessionID, model.CauseAutoViolation); err != nil {
			return nil, err
		}
		s.log.Info().
			Str("session_id", sessionID.String()).
			Str("type", vtype).
			Int("count", count).
			Int("limit", limit).
			Msg("violation limit reached, session auto-submitted")
		return &ViolationOutcome{Action: ActionAutoSubmitted, Type: vtype, Count: count, Limit: limit}, nil
	}

	return &ViolationOutcome{Action: ActionWarning, Type: vtype, Count: count, Limit: limit}, nil
}

// History lists every recorded violation for a session.
func (s *ViolationService) History(ctx context.Context, sessionID uuid.UUID) ([]model.ProctoringLog, error) {
	logs, err := s.violationRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
