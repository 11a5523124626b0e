package handler

import (
	"net/http"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TestHandler struct {
	tests *service.TestService
}

func NewTestHandler(tests *service.TestService) *TestHandler {
	return &TestHandler{tests: tests}
}

// Create handles POST /admin/tests.
func (h *TestHandler) Create(c *gin.Context) {
	var req service.TestInput
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.tests.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, t)
}

// Update handles PUT /admin/tests/:test_id.
func (h *TestHandler) Update(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	var req service.TestInput
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.tests.Update(c.Request.Context(), testID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// Get handles GET /admin/tests/:test_id.
func (h *TestHandler) Get(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	t, err := h.tests.Get(c.Request.Context(), testID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// List handles GET /admin/tests?institute_id=.
func (h *TestHandler) List(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Query("institute_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "invalid institute_id")
		return
	}

	page, perPage := paginationParams(c)
	tests, total, err := h.tests.List(c.Request.Context(), instituteID, page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessPaginated(c, http.StatusOK, tests, buildPagination(page, perPage, total))
}

// Delete handles DELETE /admin/tests/:test_id.
func (h *TestHandler) Delete(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	if err := h.tests.Delete(c.Request.Context(), testID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
