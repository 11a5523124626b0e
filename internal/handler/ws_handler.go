package handler

import (
	"context"
	"net/http"

	"github.com/examind/proctor-backend/internal/hub"
	"github.com/examind/proctor-backend/internal/middleware"
	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSHandler upgrades the proctoring sockets and bridges their events to
// the services. Service calls run on a background context because the
// request context dies with the upgrade.
type WSHandler struct {
	hub        *hub.Hub
	sessions   *service.SessionService
	violations *service.ViolationService
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

func NewWSHandler(
	h *hub.Hub,
	sessions *service.SessionService,
	violations *service.ViolationService,
	allowedOrigins []string,
	log zerolog.Logger,
) *WSHandler {
	return &WSHandler{
		hub:        h,
		sessions:   sessions,
		violations: violations,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		log: log,
	}
}

// StudentSocket handles GET /ws/v1/exam/:session_id/proctoring.
func (h *WSHandler) StudentSocket(c *gin.Context) {
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return
	}

	claims := middleware.GetCredential(c)
	sess, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if claims == nil || sess.TestStudentID != claims.TestStudentID {
		response.Fail(c, http.StatusForbidden, response.ErrCodeForbidden, "session belongs to another student")
		return
	}

	routing, err := h.sessions.Routing(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("websocket upgrade")
		return
	}

	client := h.hub.NewClient(conn)
	h.hub.Join(hub.SessionRoom(sessionID), client)
	adminRoom := hub.AdminRoom(routing.InstituteID)

	go client.WritePump()
	client.ReadPump(
		func(e hub.Event) { h.handleStudentEvent(sessionID, adminRoom, routing.StudentExternalID, client, e) },
		func() {
			h.hub.Broadcast(adminRoom, hub.Event{
				Name: hub.EventStudentDisconnected,
				Payload: map[string]any{
					"session_id": sessionID,
					"student_id": routing.StudentExternalID,
				},
			})
		},
	)
}

func (h *WSHandler) handleStudentEvent(sessionID uuid.UUID, adminRoom, studentID string, client *hub.Client, e hub.Event) {
	ctx := context.Background()

	switch e.Name {
	case hub.EventRequestTimerSync:
		left, err := h.sessions.RemainingTime(ctx, sessionID)
		if err != nil {
			h.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("timer sync")
			return
		}
		client.Send(hub.Event{
			Name:    hub.EventTimerSyncResponse,
			Payload: map[string]any{"remaining_seconds": int(left.Seconds())},
		})

	case hub.EventStudentStartedTest:
		h.hub.Broadcast(adminRoom, hub.Event{
			Name: hub.EventStudentJoined,
			Payload: map[string]any{
				"session_id": sessionID,
				"student_id": studentID,
			},
		})

	case hub.EventViolationDetected:
		payload := asMap(e.Payload)
		vtype, _ := payload["type"].(string)
		if vtype == "" {
			return
		}
		details, _ := payload["details"].(map[string]any)
		if _, err := h.violations.Report(ctx, sessionID, vtype, details); err != nil {
			h.log.Warn().Err(err).Str("session_id", sessionID.String()).Str("type", vtype).Msg("socket violation report")
		}
	}
}

// AdminSocket handles GET /ws/v1/admin/monitor?institute_id=.
func (h *WSHandler) AdminSocket(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Query("institute_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "invalid institute_id")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("institute_id", instituteID.String()).Msg("websocket upgrade")
		return
	}

	client := h.hub.NewClient(conn)
	h.hub.Join(hub.AdminRoom(instituteID), client)

	go client.WritePump()
	client.ReadPump(func(e hub.Event) { h.handleAdminEvent(client, e) }, nil)
}

func (h *WSHandler) handleAdminEvent(client *hub.Client, e hub.Event) {
	ctx := context.Background()
	payload := asMap(e.Payload)

	sessionID, err := uuid.Parse(stringField(payload, "session_id"))
	if err != nil {
		return
	}

	switch e.Name {
	case hub.EventRequestTimerSync:
		left, err := h.sessions.RemainingTime(ctx, sessionID)
		if err != nil {
			return
		}
		client.Send(hub.Event{
			Name: hub.EventTimerSyncResponse,
			Payload: map[string]any{
				"session_id":        sessionID,
				"remaining_seconds": int(left.Seconds()),
			},
		})

	case hub.EventAdminTerminateTest:
		if _, err := h.sessions.Terminate(ctx, sessionID); err != nil {
			h.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("socket terminate")
		}

	case hub.EventAdminSendWarning:
		h.hub.Broadcast(hub.SessionRoom(sessionID), hub.Event{
			Name: hub.EventWarningFromAdmin,
			Payload: map[string]any{
				"message": stringField(payload, "message"),
			},
		})
	}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
