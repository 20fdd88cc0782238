package controller

import (
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/service"
	"exam_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: svc}
}

// @Summary List assignments, scoped by role
// @Tags assignments
// @Produce json
// @Security ApiKeyAuth
// @Param examId query int false "exam id"
// @Param userId query int false "student id (admin only)"
// @Param status query string false "PENDING, IN_PROGRESS or COMPLETED"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/assignments [get]
func (c *AssignmentController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	filter := repository.AssignmentFilter{
		ExamID: util.MustParseUint(ctx.Query("examId")),
		UserID: util.MustParseUint(ctx.Query("userId")),
		Status: model.AssignmentStatus(ctx.Query("status")),
	}

	page, limit := pagination(ctx)
	as, total, err := c.Service.List(user.Identity(), filter, page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: as, Total: total, Page: page, Limit: limit})
}

// @Summary Mark the caller's assignment as started
// @Tags assignments
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/student/exams/{examId}/start [post]
func (c *AssignmentController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	a, err := c.Service.Start(user.Identity(), util.MustParseUint(ctx.Param("examId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, a)
}
