package controller

import (
	"exam_hub_backend/internal/service"
	"exam_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
}

func NewExamController(svc *service.ExamService) *ExamController {
	return &ExamController{Service: svc}
}

// @Summary Create an exam
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamReq true "exam"
// @Success 201 {object} util.Response
// @Router /api/teacher/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.CreateExam(user.Identity(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// @Summary Update an exam
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Param body body service.ExamReq true "exam"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.UpdateExam(user.Identity(), util.MustParseUint(ctx.Param("examId")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// @Summary List exams the caller may manage
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/teacher/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	exams, total, err := c.Service.List(user.Identity(), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: exams, Total: total, Page: page, Limit: limit})
}

// @Summary Exam detail with the full question set (answer keys included)
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, questions, err := c.Service.GetExam(user.Identity(), util.MustParseUint(ctx.Param("examId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"exam": exam, "questions": questions})
}

// @Summary Exam view for an assigned student (no answer keys)
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/student/exams/{examId} [get]
func (c *ExamController) StudentView(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, questions, err := c.Service.StudentView(user.Identity(), util.MustParseUint(ctx.Param("examId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"exam": exam, "questions": questions})
}

// @Summary Publish an exam to its class
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId}/publish [post]
func (c *ExamController) Publish(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assigned, err := c.Service.Publish(user.Identity(), util.MustParseUint(ctx.Param("examId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"assigned": assigned})
}

// @Summary Delete an exam with its questions, assignments and results
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("examId"))
	if err := c.Service.DeleteExam(user.Identity(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

type attachQuestionReq struct {
	QuestionID uint `json:"questionId" binding:"required"`
	Points     int  `json:"points"`
	Order      int  `json:"order"`
}

// @Summary Attach a bank question to an exam
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Param body body attachQuestionReq true "attachment"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId}/questions [post]
func (c *ExamController) AttachQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req attachQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	examID := util.MustParseUint(ctx.Param("examId"))
	if err := c.Service.AttachQuestion(user.Identity(), examID, req.QuestionID, req.Points, req.Order); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"examId": examID, "questionId": req.QuestionID})
}

// @Summary Detach a question from an exam
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param examId path int true "exam id"
// @Param questionId path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{examId}/questions/{questionId} [delete]
func (c *ExamController) DetachQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.Param("examId"))
	questionID := util.MustParseUint(ctx.Param("questionId"))
	if err := c.Service.DetachQuestion(user.Identity(), examID, questionID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"detached": questionID})
}
