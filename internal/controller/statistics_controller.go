package controller

import (
	"exam_hub_backend/internal/service"
	"exam_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	Stats *service.StatisticsService
}

func NewStatisticsController(stats *service.StatisticsService) *StatisticsController {
	return &StatisticsController{Stats: stats}
}

// @Summary Aggregate statistics for an exam
// @Tags statistics
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId}/statistics [get]
func (c *StatisticsController) GetExamStatistics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.Stats.Compute(user.Identity(), util.MustParseUint(ctx.Param("examId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
