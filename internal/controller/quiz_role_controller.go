package controller

import (
	"errors"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuizRoleController struct {
	RoleService   *service.QuizRoleService
	QuizService   *service.QuizService
	AccessService *service.AccessService
}

func NewQuizRoleController(roleService *service.QuizRoleService, quizService *service.QuizService, accessService *service.AccessService) *QuizRoleController {
	return &QuizRoleController{
		RoleService:   roleService,
		QuizService:   quizService,
		AccessService: accessService,
	}
}

// requireManageRoles loads the quiz and verifies the MANAGE_ROLES
// permission, writing the error response itself on failure.
func (c *QuizRoleController) requireManageRoles(ctx *gin.Context, userID uint) *model.Quiz {
	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return nil
	}

	allowed, err := c.AccessService.HasPermission(userID, quiz, model.PermManageRoles)
	if err != nil {
		util.LogInternalError(ctx, err)
		return nil
	}
	if !allowed {
		util.Forbidden(ctx)
		return nil
	}
	return quiz
}

// List godoc
// @Summary List quiz roles
// @Description Returns the quiz's role assignments; a creator row is synthesized when none is stored. Requires MANAGE_ROLES.
// @Tags roles
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=[]model.QuizRole}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quizzes/{id}/roles [get]
func (c *QuizRoleController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.requireManageRoles(ctx, claims.UserID)
	if quiz == nil {
		return
	}

	roles, err := c.RoleService.List(quiz)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, roles)
}

// AssignRoleRequest identifies the collaborator by email.
// swagger:model AssignRoleRequest
type AssignRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=teacher monitor student"`
}

// Assign godoc
// @Summary Assign a quiz role
// @Description Grants teacher, monitor or student to the user with the given email; requires MANAGE_ROLES
// @Tags roles
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   body body AssignRoleRequest true "Email and role"
// @Success 201 {object} util.Response{data=model.QuizRole}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "No account with that email"
// @Router /api/quizzes/{id}/roles [post]
func (c *QuizRoleController) Assign(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.requireManageRoles(ctx, claims.UserID)
	if quiz == nil {
		return
	}

	var req AssignRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.RoleService.Assign(quiz, req.Email, model.QuizRoleName(req.Role), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, 404, "No account with that email")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, role)
}

// Remove godoc
// @Summary Remove a quiz role
// @Description Drops the user's role on the quiz; the creator cannot be removed. Requires MANAGE_ROLES.
// @Tags roles
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Param   userId query int true "User ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Missing userId or creator removal"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quizzes/{id}/roles [delete]
func (c *QuizRoleController) Remove(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := c.requireManageRoles(ctx, claims.UserID)
	if quiz == nil {
		return
	}

	userID := util.ParseUintOrZero(ctx.Query("userId"))
	if userID == 0 {
		util.BadRequest(ctx, "userId query parameter is required")
		return
	}

	if err := c.RoleService.Remove(quiz, userID); err != nil {
		if errors.Is(err, util.ErrCannotRemoveCreator) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"removed": userID})
}
