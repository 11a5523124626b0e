package response

// ErrCode is a machine-readable error identifier returned in the error
// envelope alongside the HTTP status.
type ErrCode string

const (
	ErrCodeValidation     ErrCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized   ErrCode = "UNAUTHORIZED"
	ErrCodeForbidden      ErrCode = "FORBIDDEN"
	ErrCodeNotFound       ErrCode = "NOT_FOUND"
	ErrCodeConflict       ErrCode = "CONFLICT"
	ErrCodeTestNotActive  ErrCode = "TEST_NOT_ACTIVE"
	ErrCodeSessionClosed  ErrCode = "SESSION_CLOSED"
	ErrCodeCodeExpired    ErrCode = "ACCESS_CODE_EXPIRED"
	ErrCodeUploadFailed   ErrCode = "UPLOAD_FAILED"
	ErrCodeInternal       ErrCode = "INTERNAL_ERROR"
	ErrCodeNotImplemented ErrCode = "NOT_IMPLEMENTED"
)
