package handler

import (
	"net/http"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuestionHandler struct {
	questions *service.QuestionService
}

func NewQuestionHandler(questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// CreatePaper handles POST /admin/papers.
func (h *QuestionHandler) CreatePaper(c *gin.Context) {
	var req service.PaperInput
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.questions.CreatePaper(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, p)
}

// ListPapers handles GET /admin/papers?institute_id=.
func (h *QuestionHandler) ListPapers(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Query("institute_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "invalid institute_id")
		return
	}

	papers, err := h.questions.ListPapers(c.Request.Context(), instituteID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, papers)
}

// PaperStatus handles GET /admin/papers/:paper_id/status.
func (h *QuestionHandler) PaperStatus(c *gin.Context) {
	paperID, ok := pathUUID(c, "paper_id")
	if !ok {
		return
	}

	locked, err := h.questions.PaperLocked(c.Request.Context(), paperID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"locked": locked})
}

// ListQuestions handles GET /admin/papers/:paper_id/questions.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	paperID, ok := pathUUID(c, "paper_id")
	if !ok {
		return
	}

	questions, err := h.questions.ListQuestions(c.Request.Context(), paperID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, questions)
}

// AddQuestion handles POST /admin/papers/:paper_id/questions.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	paperID, ok := pathUUID(c, "paper_id")
	if !ok {
		return
	}

	var req service.QuestionInput
	if !bindJSON(c, &req) {
		return
	}

	q, err := h.questions.AddQuestion(c.Request.Context(), paperID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, q)
}

// UpdateQuestion handles PUT /admin/questions/:question_id.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := pathUUID(c, "question_id")
	if !ok {
		return
	}

	var req service.QuestionInput
	if !bindJSON(c, &req) {
		return
	}

	q, err := h.questions.UpdateQuestion(c.Request.Context(), questionID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /admin/questions/:question_id.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := pathUUID(c, "question_id")
	if !ok {
		return
	}

	if err := h.questions.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
