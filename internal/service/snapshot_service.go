package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/examind/proctor-backend/internal/hub"
	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/examind/proctor-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SnapshotService accepts webcam snapshots from proctored attempts. The
// upload and record are required; the monitor broadcast is best-effort.
type SnapshotService struct {
	sessionRepo  repository.SessionRepository
	snapshotRepo repository.SnapshotRepository
	store        storage.SnapshotStore
	hub          *hub.Hub
	log          zerolog.Logger
	now          func() time.Time
}

func NewSnapshotService(
	sessionRepo repository.SessionRepository,
	snapshotRepo repository.SnapshotRepository,
	store storage.SnapshotStore,
	h *hub.Hub,
	log zerolog.Logger,
) *SnapshotService {
	return &SnapshotService{
		sessionRepo:  sessionRepo,
		snapshotRepo: snapshotRepo,
		store:        store,
		hub:          h,
		log:          log,
		now:          time.Now,
	}
}

func (s *SnapshotService) Upload(ctx context.Context, sessionID uuid.UUID, image io.Reader) (*model.WebcamSnapshot, error) {
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

	url, publicID, err := s.store.Upload(ctx, sessionID.String(), image)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("snapshot upload")
		return nil, ErrUploadFailed
	}

	snap := &model.WebcamSnapshot{
		ID:         uuid.New(),
		SessionID:  sessionID,
		StudentID:  sess.TestStudentID,
		URL:        url,
		PublicID:   publicID,
		CapturedAt: s.now(),
	}
	if err := s.snapshotRepo.Create(ctx, snap); err != nil {
		return nil, err
	}

	if routing, err := s.sessionRepo.GetRouting(ctx, sessionID); err == nil {
		s.hub.Broadcast(hub.AdminRoom(routing.InstituteID), hub.Event{
			Name: hub.EventStudentSnapshot,
			Payload: map[string]any{
				"session_id":  sessionID,
				"student_id":  routing.StudentExternalID,
				"url":         url,
				"captured_at": snap.CapturedAt,
			},
		})
	} else {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("resolve routing for snapshot broadcast")
	}

	return snap, nil
}
