package handler

import (
	"net/http"
	"time"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccessHandler struct {
	access *service.AccessService
}

func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

type requestCodeRequest struct {
	TestID    uuid.UUID `json:"test_id" binding:"required"`
	StudentID string    `json:"student_id" validate:"required,min=1,max=64"`
}

// RequestCode handles POST /exam/access/request.
func (h *AccessHandler) RequestCode(c *gin.Context) {
	var req requestCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.access.RequestCode(c.Request.Context(), req.TestID, req.StudentID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "access code sent",
	})
}

type verifyCodeRequest struct {
	StudentID string `json:"student_id" validate:"required,min=1,max=64"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
}

// VerifyCode handles POST /exam/access/verify. The test summary and
// server time let the client render the lobby and sync its clock.
func (h *AccessHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	token, student, test, err := h.access.VerifyCode(c.Request.Context(), req.StudentID, req.Code)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"student": student,
		"test": gin.H{
			"id":               test.ID,
			"title":            test.Title,
			"description":      test.Description,
			"start_at":         test.StartAt,
			"end_at":           test.EndAt,
			"duration_minutes": test.DurationMinutes,
			"total_marks":      test.TotalMarks,
			"proctoring":       test.Proctoring,
		},
		"server_time": time.Now().UTC(),
	})
}
