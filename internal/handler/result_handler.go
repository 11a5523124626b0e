package handler

import (
	"net/http"

	"github.com/examind/proctor-backend/internal/model"
	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResultHandler struct {
	results  *service.ResultService
	sessions *service.SessionService
}

func NewResultHandler(results *service.ResultService, sessions *service.SessionService) *ResultHandler {
	return &ResultHandler{results: results, sessions: sessions}
}

// List handles GET /admin/tests/:test_id/results.
func (h *ResultHandler) List(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	page, perPage := paginationParams(c)
	rows, total, err := h.results.List(c.Request.Context(), testID, page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessPaginated(c, http.StatusOK, rows, buildPagination(page, perPage, total))
}

// ListAll handles GET /admin/results?institute_id=.
func (h *ResultHandler) ListAll(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Query("institute_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "invalid institute_id")
		return
	}

	page, perPage := paginationParams(c)
	rows, total, err := h.results.ListByInstitute(c.Request.Context(), instituteID, page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessPaginated(c, http.StatusOK, rows, buildPagination(page, perPage, total))
}

// Detail handles GET /admin/results/:session_id.
func (h *ResultHandler) Detail(c *gin.Context) {
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return
	}

	detail, err := h.results.Detail(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

type reviewRequest struct {
	Status     model.ReviewStatus `json:"status" validate:"required,oneof=under-review valid disqualified published"`
	Remark     string             `json:"remark" validate:"max=2000"`
	ReviewedBy string             `json:"reviewed_by" validate:"required,min=1,max=200"`
}

// Review handles PUT /admin/results/:session_id/review.
func (h *ResultHandler) Review(c *gin.Context) {
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return
	}

	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rev, err := h.results.Review(c.Request.Context(), sessionID, req.Status, req.Remark, req.ReviewedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rev)
}

// Publish handles POST /admin/results/:session_id/publish.
func (h *ResultHandler) Publish(c *gin.Context) {
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return
	}

	if err := h.results.Publish(c.Request.Context(), sessionID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"published": true})
}

// Terminate handles POST /admin/sessions/:session_id/terminate.
func (h *ResultHandler) Terminate(c *gin.Context) {
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return
	}

	sess, err := h.sessions.Terminate(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sess)
}
