package controller

import (
	"errors"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuizController struct {
	QuizService   *service.QuizService
	AccessService *service.AccessService
}

func NewQuizController(quizService *service.QuizService, accessService *service.AccessService) *QuizController {
	return &QuizController{QuizService: quizService, AccessService: accessService}
}

// Create godoc
// @Summary Create a quiz
// @Description Creates a quiz with its questions, mints the public link and assigns the creator role
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateQuizReq true "Quiz definition"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "Invalid payload"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// List godoc
// @Summary List quizzes
// @Description Lists published quizzes, or with mine=true the caller's created and assigned quizzes
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   mine query bool false "Only quizzes the caller created or holds a role on"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var (
		quizzes []model.Quiz
		err     error
	)
	if ctx.Query("mine") == "true" {
		quizzes, err = c.QuizService.ListForUser(claims.UserID)
	} else {
		quizzes, err = c.QuizService.ListPublished()
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Get godoc
// @Summary Fetch a quiz
// @Description Returns the quiz through the access gate. Answer keys are included only for viewers with results access; takers get a shuffled presentation when the quiz shuffles.
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   x-quiz-passcode header string false "Passcode for password-gated quizzes"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 403 {object} util.Response "Denied, with reason sub-signal"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	passcode := ctx.GetHeader(util.PasscodeHeader)
	decision, err := c.AccessService.Evaluate(claims.UserID, quiz, passcode)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !decision.CanView {
		switch decision.Reason {
		case service.DenyPasswordRequired:
			util.ForbiddenReason(ctx, util.ReasonPasswordRequired, "A passcode is required to access this quiz")
		case service.DenyApprovalRequired:
			util.ForbiddenReason(ctx, util.ReasonApprovalRequired, "Access to this quiz requires approval")
		default:
			util.Forbidden(ctx)
		}
		return
	}

	// Reviewers see keys in canonical order; takers get the shuffled
	// presentation with keys stripped.
	includeKeys := decision.CanViewResults
	view, err := c.QuizService.BuildView(quiz, includeKeys, !includeKeys)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetPublic godoc
// @Summary Public quiz landing
// @Description Resolves the public slug to the unauthenticated landing projection
// @Tags quizzes
// @Produce  json
// @Param   nanoid path string true "Public slug"
// @Success 200 {object} util.Response{data=service.PublicQuizView}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/public/{nanoid} [get]
func (c *QuizController) GetPublic(ctx *gin.Context) {
	view, err := c.QuizService.GetPublic(ctx.Request.Context(), ctx.Param("nanoid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// Update godoc
// @Summary Update a quiz
// @Description Applies a partial update; requires the EDIT_QUIZ permission
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   body body service.UpdateQuizReq true "Fields to change"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	allowed, err := c.AccessService.HasPermission(claims.UserID, quiz, model.PermEditQuiz)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !allowed {
		util.Forbidden(ctx)
		return
	}

	var req service.UpdateQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.QuizService.Update(quiz.ID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// Delete godoc
// @Summary Delete a quiz
// @Description Removes the quiz with its questions, roles and pending requests; requires the DELETE_QUIZ permission
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	allowed, err := c.AccessService.HasPermission(claims.UserID, quiz, model.PermDeleteQuiz)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !allowed {
		util.Forbidden(ctx)
		return
	}

	if err := c.QuizService.Delete(quiz.ID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": quiz.ID})
}
