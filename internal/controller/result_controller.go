package controller

import (
	"encoding/json"
	"exam_hub_backend/internal/service"
	"exam_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Submissions *service.SubmissionService
	Results     *service.ResultService
}

func NewResultController(submissions *service.SubmissionService, results *service.ResultService) *ResultController {
	return &ResultController{Submissions: submissions, Results: results}
}

type submitReq struct {
	Answers map[uint]json.RawMessage `json:"answers" binding:"required"`
}

// @Summary Submit answers for an assigned exam
// @Tags results
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Param body body submitReq true "answers keyed by question id"
// @Success 200 {object} util.Response
// @Router /api/student/exams/{examId}/submit [post]
func (c *ResultController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.Submissions.Submit(user.Identity(), util.MustParseUint(ctx.Param("examId")), req.Answers)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, outcome)
}

// @Summary Result detail with per-question outcomes
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "result id"
// @Success 200 {object} util.Response
// @Router /api/results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.Results.GetByID(user.Identity(), ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary Amend a result (grade override)
// @Tags results
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "result id"
// @Param body body service.AmendRequest true "partial update"
// @Success 200 {object} util.Response
// @Router /api/teacher/results/{id} [patch]
func (c *ResultController) AmendResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AmendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Results.Amend(user.Identity(), ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, res)
}

// @Summary All results of one exam
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId}/results [get]
func (c *ResultController) ListByExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rs, err := c.Results.ListByExam(user.Identity(), util.MustParseUint(ctx.Param("examId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": rs, "total": len(rs)})
}

// @Summary The caller's own results
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/student/results [get]
func (c *ResultController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	rs, total, err := c.Results.ListByStudent(user.Identity(), user.UserID, page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: rs, Total: total, Page: page, Limit: limit})
}
