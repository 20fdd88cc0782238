package app

import (
	"exam_hub_backend/internal/config"
	"exam_hub_backend/internal/middleware"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/assignments", c.assignment.List)
		authGroup.GET("/results/:id", c.result.GetResult)

		student := authGroup.Group("/student")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.GET("/exams/:examId", c.exam.StudentView)
			student.POST("/exams/:examId/start", c.assignment.Start)
			student.POST("/exams/:examId/submit", c.result.Submit)
			student.GET("/results", c.result.ListMine)
		}

		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
		{
			teacher.POST("/exams", c.exam.CreateExam)
			teacher.GET("/exams", c.exam.ListExams)
			teacher.GET("/exams/:examId", c.exam.GetExam)
			teacher.PUT("/exams/:examId", c.exam.UpdateExam)
			teacher.DELETE("/exams/:examId", c.exam.DeleteExam)
			teacher.POST("/exams/:examId/publish", c.exam.Publish)
			teacher.POST("/exams/:examId/questions", c.exam.AttachQuestion)
			teacher.DELETE("/exams/:examId/questions/:questionId", c.exam.DetachQuestion)
			teacher.GET("/exams/:examId/results", c.result.ListByExam)
			teacher.GET("/exams/:examId/statistics", c.statistics.GetExamStatistics)

			teacher.POST("/questions", c.question.CreateQuestion)
			teacher.GET("/questions", c.question.ListBank)
			teacher.PUT("/questions/:id", c.question.UpdateQuestion)

			teacher.PATCH("/results/:id", c.result.AmendResult)
		}

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/users", c.user.List)
			admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		}
	}
}
