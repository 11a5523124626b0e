package service

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("operation not allowed")
	ErrTestNotActive     = errors.New("test window is not open")
	ErrSessionClosed     = errors.New("session is already submitted")
	ErrInvalidCode       = errors.New("invalid or expired access code")
	ErrInvalidCredential = errors.New("invalid exam credential")
	ErrQuestionNotInPool = errors.New("question is not part of this attempt")
	ErrInvalidOption     = errors.New("option does not belong to this question")
	ErrPaperLocked       = errors.New("question paper is locked by active attempts")
	ErrDuplicateSr       = errors.New("serial number already used in this paper")
	ErrAlreadyPublished  = errors.New("result is already published")
	ErrResultsHidden     = errors.New("results are not visible for this test")
	ErrUploadFailed      = errors.New("snapshot upload failed")
)
