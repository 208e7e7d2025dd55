package controller

import (
	"errors"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AccessRequestController struct {
	RequestService *service.AccessRequestService
	QuizService    *service.QuizService
	AccessService  *service.AccessService
}

func NewAccessRequestController(requestService *service.AccessRequestService, quizService *service.QuizService, accessService *service.AccessService) *AccessRequestController {
	return &AccessRequestController{
		RequestService: requestService,
		QuizService:    quizService,
		AccessService:  accessService,
	}
}

func (c *AccessRequestController) findQuiz(ctx *gin.Context) *model.Quiz {
	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return nil
	}
	return quiz
}

// AccessRequestBody carries the requester's display name.
// swagger:model AccessRequestBody
type AccessRequestBody struct {
	Name string `json:"name"`
}

// Request godoc
// @Summary Request access to a quiz
// @Description Creates or re-opens the caller's pending access request on an approval-gated quiz
// @Tags access-requests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   body body AccessRequestBody false "Display name, defaults to Participant"
// @Success 201 {object} util.Response{data=model.QuizAccessRequest}
// @Failure 400 {object} util.Response "Quiz is not approval-gated or not published"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id}/access-requests [post]
func (c *AccessRequestController) Request(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.findQuiz(ctx)
	if quiz == nil {
		return
	}

	var body AccessRequestBody
	_ = ctx.ShouldBindJSON(&body)
	if body.Name == "" {
		body.Name = claims.Name
	}

	req, err := c.RequestService.Request(quiz, claims.UserID, body.Name)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotPublished) || errors.Is(err, util.ErrApprovalNotRequired) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, req)
}

// ListPending godoc
// @Summary List pending access requests
// @Description Returns pending requests on the quiz, newest first; requires MANAGE_ROLES
// @Tags access-requests
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=[]model.QuizAccessRequest}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quizzes/{id}/access-requests [get]
func (c *AccessRequestController) ListPending(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.findQuiz(ctx)
	if quiz == nil {
		return
	}

	allowed, err := c.AccessService.HasPermission(claims.UserID, quiz, model.PermManageRoles)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !allowed {
		util.Forbidden(ctx)
		return
	}

	requests, err := c.RequestService.ListPending(quiz.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// MyStatus godoc
// @Summary My access request status
// @Description Returns the caller's request status and role on the quiz, with "none" and null defaults
// @Tags access-requests
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=service.MyRequestStatus}
// @Router /api/quizzes/{id}/access-requests/me [get]
func (c *AccessRequestController) MyStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.findQuiz(ctx)
	if quiz == nil {
		return
	}

	status, err := c.RequestService.MyStatus(quiz.ID, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// DecideRequestBody selects the decision to apply.
// swagger:model DecideRequestBody
type DecideRequestBody struct {
	Action string `json:"action" binding:"required,oneof=approve deny"`
}

// Decide godoc
// @Summary Decide an access request
// @Description Approves or denies a request; approval grants a student role, denial removes one. Requires MANAGE_ROLES.
// @Tags access-requests
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   requestId path string true "Request ID"
// @Param   body body DecideRequestBody true "approve or deny"
// @Success 200 {object} util.Response{data=model.QuizAccessRequest}
// @Failure 400 {object} util.Response "Invalid action or request/quiz mismatch"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Request not found"
// @Router /api/quizzes/{id}/access-requests/{requestId} [patch]
func (c *AccessRequestController) Decide(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.findQuiz(ctx)
	if quiz == nil {
		return
	}

	allowed, err := c.AccessService.HasPermission(claims.UserID, quiz, model.PermManageRoles)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !allowed {
		util.Forbidden(ctx)
		return
	}

	var body DecideRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, "action must be approve or deny")
		return
	}

	req, err := c.RequestService.Decide(quiz, ctx.Param("requestId"), body.Action == "approve", claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrRequestNotFound) {
			util.NotFound(ctx)
		} else if errors.Is(err, util.ErrRequestQuizMismatch) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, req)
}
