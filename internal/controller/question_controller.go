package controller

import (
	"exam_hub_backend/internal/service"
	"exam_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController serves the reusable question bank.
type QuestionController struct {
	Service *service.ExamService
}

func NewQuestionController(svc *service.ExamService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary Create a bank question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionReq true "question"
// @Success 201 {object} util.Response
// @Router /api/teacher/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.CreateQuestion(user.Identity(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// @Summary Update a bank question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "question id"
// @Param body body service.QuestionReq true "question"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.UpdateQuestion(user.Identity(), util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

// @Summary List the caller's question bank
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/teacher/questions [get]
func (c *QuestionController) ListBank(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	qs, total, err := c.Service.ListBank(user.Identity(), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: qs, Total: total, Page: page, Limit: limit})
}
