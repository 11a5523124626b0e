package handler

import (
	"errors"
	"net/http"

	"github.com/examind/proctor-backend/internal/response"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/examind/proctor-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// writeServiceError maps service sentinels onto the HTTP error envelope.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrCodeNotFound, "resource not found")
	case errors.Is(err, service.ErrTestNotActive):
		response.Fail(c, http.StatusForbidden, response.ErrCodeTestNotActive, "the test window is not open")
	case errors.Is(err, service.ErrSessionClosed):
		response.Fail(c, http.StatusConflict, response.ErrCodeSessionClosed, "the session is already submitted")
	case errors.Is(err, service.ErrInvalidCode):
		response.Fail(c, http.StatusUnauthorized, response.ErrCodeCodeExpired, "invalid or expired access code")
	case errors.Is(err, service.ErrInvalidCredential):
		response.Fail(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "invalid exam credential")
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrCodeForbidden, "operation not allowed")
	case errors.Is(err, service.ErrResultsHidden):
		response.Fail(c, http.StatusForbidden, response.ErrCodeForbidden, "results are not available")
	case errors.Is(err, service.ErrQuestionNotInPool):
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "question is not part of this attempt")
	case errors.Is(err, service.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "option does not belong to this question")
	case errors.Is(err, service.ErrPaperLocked):
		response.Fail(c, http.StatusConflict, response.ErrCodeConflict, "question paper is locked by active attempts")
	case errors.Is(err, service.ErrDuplicateSr):
		response.Fail(c, http.StatusConflict, response.ErrCodeConflict, "serial number already used in this paper")
	case errors.Is(err, service.ErrAlreadyPublished):
		response.Fail(c, http.StatusConflict, response.ErrCodeConflict, "result is already published")
	case errors.Is(err, service.ErrUploadFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrCodeUploadFailed, "snapshot upload failed")
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrCodeInternal, "something went wrong")
	}
}

// bindJSON decodes and validates the request body, writing the error
// envelope itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	fields, err := validator.Bind(c, dst)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "malformed request body")
		return false
	}
	if fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrCodeValidation, "validation failed", fields)
		return false
	}
	return true
}

// pathUUID parses a UUID path parameter, writing the error envelope on
// failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrCodeValidation, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
