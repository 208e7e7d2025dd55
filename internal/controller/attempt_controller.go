package controller

import (
	"errors"

	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// Submit godoc
// @Summary Submit an attempt
// @Description Grades the answers and records a completed attempt. The access gate and attempt limit are enforced server-side.
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubmitAttemptReq true "Answers keyed by canonical question index"
// @Param   x-quiz-passcode header string false "Passcode for password-gated quizzes"
// @Success 201 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "Denied, attempt limit reached, or reason sub-signal"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, quiz, err := c.AttemptService.Submit(claims.UserID, req, ctx.GetHeader(util.PasscodeHeader))
	if err != nil {
		respondAccessError(ctx, err)
		return
	}

	monitoring.AttemptCounter.WithLabelValues("completed").Inc()

	payload := gin.H{"attempt": attempt}
	if quiz.ShowScore {
		payload["score"] = attempt.Score
		payload["totalPoints"] = attempt.TotalPoints
		payload["percentage"] = attempt.Percentage
	}
	util.Created(ctx, payload)
}

// SaveProgress godoc
// @Summary Save attempt progress
// @Description Upserts the caller's single active attempt on the quiz without counting toward the limit
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SaveProgressReq true "Partial answers"
// @Param   x-quiz-passcode header string false "Passcode for password-gated quizzes"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 403 {object} util.Response "Denied, with reason sub-signal"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/attempts/save [post]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SaveProgressReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.SaveProgress(claims.UserID, req, ctx.GetHeader(util.PasscodeHeader))
	if err != nil {
		respondAccessError(ctx, err)
		return
	}

	monitoring.AttemptCounter.WithLabelValues("active").Inc()
	util.Success(ctx, attempt)
}

// ListMine godoc
// @Summary List my attempts
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Attempt}
// @Router /api/attempts [get]
func (c *AttemptController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.AttemptService.ListMine(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// Get godoc
// @Summary Fetch an attempt
// @Description Returns the attempt with its quiz; only the attempt's owner or the quiz's creator may read it
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Attempt ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, quiz, err := c.AttemptService.Get(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"attempt": attempt, "quiz": quiz})
}

// ListForQuiz godoc
// @Summary List attempts on a quiz
// @Description Returns every attempt on the quiz; creator only
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=[]model.Attempt}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{id}/attempts [get]
func (c *AttemptController) ListForQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.AttemptService.ListForQuiz(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondAccessError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
