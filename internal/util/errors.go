package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizNotPublished    = errors.New("quiz is not published")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrRequestNotFound     = errors.New("request not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrPasswordRequired    = errors.New("passcode required or incorrect")
	ErrApprovalRequired    = errors.New("approval required")
	ErrMaxAttemptsReached  = errors.New("maximum attempts reached for this quiz")
	ErrApprovalNotRequired = errors.New("this quiz does not require approval")
	ErrRequestQuizMismatch = errors.New("request does not match quiz")
	ErrCannotRemoveCreator = errors.New("cannot remove the creator")
)
