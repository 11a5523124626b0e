package handler

import (
	"net/http"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	students *service.StudentService
}

func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Assign handles POST /admin/tests/:test_id/students.
func (h *StudentHandler) Assign(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	var req service.StudentInput
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.students.Assign(c.Request.Context(), testID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, student)
}

// List handles GET /admin/tests/:test_id/students.
func (h *StudentHandler) List(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	students, err := h.students.List(c.Request.Context(), testID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, students)
}

// Remove handles DELETE /admin/students/:student_id.
func (h *StudentHandler) Remove(c *gin.Context) {
	studentID, ok := pathUUID(c, "student_id")
	if !ok {
		return
	}

	if err := h.students.Remove(c.Request.Context(), studentID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
