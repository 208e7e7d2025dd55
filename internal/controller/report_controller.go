package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Get godoc
// @Summary Quiz report
// @Description Aggregates all attempts on the quiz with per-category performance; creator only
// @Tags reports
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=service.QuizReport}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{id}/reports [get]
func (c *ReportController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.ReportService.Build(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondAccessError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Leaderboard godoc
// @Summary Platform leaderboard
// @Description Top takers across all quizzes, ranked by total score over completed attempts
// @Tags reports
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "Number of rows, default 10, max 50"
// @Success 200 {object} util.Response{data=[]repository.LeaderboardRow}
// @Router /api/leaderboard [get]
func (c *ReportController) Leaderboard(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := int(util.ParseUintOrZero(ctx.DefaultQuery("limit", "10")))
	rows, err := c.ReportService.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
