package handler

import (
	"net/http"

	"github.com/examind/proctor-backend/internal/middleware"
	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExamHandler is the student-facing attempt surface. Every route runs
// behind the credential middleware; handlers verify the session in the
// path belongs to the caller.
type ExamHandler struct {
	sessions   *service.SessionService
	violations *service.ViolationService
	snapshots  *service.SnapshotService
	results    *service.ResultService
}

func NewExamHandler(
	sessions *service.SessionService,
	violations *service.ViolationService,
	snapshots *service.SnapshotService,
	results *service.ResultService,
) *ExamHandler {
	return &ExamHandler{
		sessions:   sessions,
		violations: violations,
		snapshots:  snapshots,
		results:    results,
	}
}

// Start handles POST /exam/start.
func (h *ExamHandler) Start(c *gin.Context) {
	claims := middleware.GetCredential(c)

	result, err := h.sessions.Start(c.Request.Context(), claims.TestID, claims.TestStudentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

type saveAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	OptionID   string    `json:"option_id" validate:"required,min=1,max=64"`
	TimeSpent  int       `json:"time_spent" validate:"min=0"`
}

// SaveAnswer handles POST /exam/sessions/:session_id/answers.
func (h *ExamHandler) SaveAnswer(c *gin.Context) {
	sess, ok := h.ownSession(c)
	if !ok {
		return
	}

	var req saveAnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.sessions.SaveAnswer(c.Request.Context(), sess.ID, req.QuestionID, req.OptionID, req.TimeSpent); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// Submit handles POST /exam/sessions/:session_id/submit.
func (h *ExamHandler) Submit(c *gin.Context) {
	sess, ok := h.ownSession(c)
	if !ok {
		return
	}

	submitted, err := h.sessions.Submit(c.Request.Context(), sess.ID, model.CauseManual)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, submitted)
}

// RemainingTime handles GET /exam/sessions/:session_id/time.
func (h *ExamHandler) RemainingTime(c *gin.Context) {
	sess, ok := h.ownSession(c)
	if !ok {
		return
	}

	left, err := h.sessions.RemainingTime(c.Request.Context(), sess.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	total := sess.DeadlineAt.Sub(sess.StartedAt)
	response.Success(c, http.StatusOK, gin.H{
		"remaining_seconds": int(left.Seconds()),
		"elapsed_seconds":   int((total - left).Seconds()),
		"total_seconds":     int(total.Seconds()),
	})
}

type reportViolationRequest struct {
	Type    string         `json:"type" validate:"required,min=1,max=64"`
	Details map[string]any `json:"details"`
}

// ReportViolation handles POST /exam/sessions/:session_id/violations.
func (h *ExamHandler) ReportViolation(c *gin.Context) {
	sess, ok := h.ownSession(c)
	if !ok {
		return
	}

	var req reportViolationRequest
	if !bindJSON(c, &req) {
		return
	}

	outcome, err := h.violations.Report(c.Request.Context(), sess.ID, req.Type, req.Details)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

// UploadSnapshot handles POST /exam/sessions/:session_id/snapshot with a
// multipart "image" part.
func (h *ExamHandler) UploadSnapshot(c *gin.Context) {
	sess, ok := h.ownSession(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "missing image upload")
		return
	}
	defer file.Close()

	snap, err := h.snapshots.Upload(c.Request.Context(), sess.ID, file)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, snap)
}

// MyResult handles GET /exam/result.
func (h *ExamHandler) MyResult(c *gin.Context) {
	claims := middleware.GetCredential(c)

	result, err := h.results.MyResult(c.Request.Context(), claims.TestID, claims.TestStudentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ownSession resolves :session_id and rejects sessions the caller does
// not own.
func (h *ExamHandler) ownSession(c *gin.Context) (*model.TestSession, bool) {
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return nil, false
	}

	sess, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}

	claims := middleware.GetCredential(c)
	if claims == nil || sess.TestStudentID != claims.TestStudentID {
		response.Fail(c, http.StatusForbidden, response.ErrCodeForbidden, "session belongs to another student")
		return nil, false
	}
	return sess, true
}
