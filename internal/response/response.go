package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform body shape for every JSON response.
type Envelope struct {
	Data       any         `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Metadata struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

func metadata(c *gin.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	}
}

// Success writes a success envelope with the given status and payload.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		Data:     data,
		Metadata: metadata(c),
	})
}

// SuccessPaginated writes a success envelope carrying pagination info.
func SuccessPaginated(c *gin.Context, status int, data any, p *Pagination) {
	c.JSON(status, Envelope{
		Data:       data,
		Pagination: p,
		Metadata:   metadata(c),
	})
}

// Fail writes an error envelope with the given status, code and message.
func Fail(c *gin.Context, status int, code ErrCode, message string) {
	c.JSON(status, Envelope{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		Metadata: metadata(c),
	})
}

// FailFields writes a validation error envelope with per-field messages.
func FailFields(c *gin.Context, status int, code ErrCode, message string, fields map[string]string) {
	c.JSON(status, Envelope{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
		Metadata: metadata(c),
	})
}

// AbortFail writes an error envelope and aborts the handler chain.
// Intended for middleware.
func AbortFail(c *gin.Context, status int, code ErrCode, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		Metadata: metadata(c),
	})
}
