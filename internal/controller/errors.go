package controller

import (
	"errors"
	"net/http"

	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondAccessError maps gate and lookup failures from the service
// layer onto HTTP responses. Passcode and approval denials carry a
// reason sub-signal so the client can prompt instead of dead-ending.
func respondAccessError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPasswordRequired):
		util.ForbiddenReason(ctx, util.ReasonPasswordRequired, "A passcode is required to access this quiz")
	case errors.Is(err, util.ErrApprovalRequired):
		util.ForbiddenReason(ctx, util.ReasonApprovalRequired, "Access to this quiz requires approval")
	case errors.Is(err, util.ErrMaxAttemptsReached):
		util.Error(ctx, http.StatusForbidden, "Maximum attempts reached for this quiz")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
