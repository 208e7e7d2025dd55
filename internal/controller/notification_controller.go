package controller

import (
	"strconv"

	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// List godoc
// @Summary List notifications
// @Description Returns the caller's notifications, newest first, with the unread count
// @Tags notifications
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "Page size, default 20"
// @Success 200 {object} util.Response{data=service.NotificationList}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	list, err := c.NotificationService.List(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// MarkReadRequest marks one notification, or all when ID is omitted.
// swagger:model MarkReadRequest
type MarkReadRequest struct {
	ID *uint `json:"id"`
}

// MarkRead godoc
// @Summary Mark notifications read
// @Description Marks the given notification read, or all of the caller's notifications when no id is sent
// @Tags notifications
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MarkReadRequest false "Notification to mark"
// @Success 200 {object} util.Response
// @Router /api/notifications [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MarkReadRequest
	_ = ctx.ShouldBindJSON(&req)

	var err error
	if req.ID != nil {
		err = c.NotificationService.MarkRead(claims.UserID, *req.ID)
	} else {
		err = c.NotificationService.MarkAllRead(claims.UserID)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
