package router

import (
	"net/http"

	"github.com/examind/proctor-backend/internal/config"
	"github.com/examind/proctor-backend/internal/handler"
	"github.com/examind/proctor-backend/internal/middleware"
	"github.com/examind/proctor-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Access   *handler.AccessHandler
	Exam     *handler.ExamHandler
	Test     *handler.TestHandler
	Question *handler.QuestionHandler
	Student  *handler.StudentHandler
	Result   *handler.ResultHandler
	WS       *handler.WSHandler
}

// Setup wires every route onto a fresh engine.
func Setup(cfg *config.Config, h Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(response.RequestIDMiddleware())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Admin-Key", "X-Request-ID"}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	access := api.Group("/exam/access")
	{
		access.POST("/request", h.Access.RequestCode)
		access.POST("/verify", h.Access.VerifyCode)
	}

	exam := api.Group("/exam")
	exam.Use(middleware.RequireCredential(cfg.JWTSecret))
	{
		exam.POST("/start", h.Exam.Start)
		exam.GET("/result", h.Exam.MyResult)

		sessions := exam.Group("/sessions/:session_id")
		{
			sessions.POST("/answers", h.Exam.SaveAnswer)
			sessions.POST("/submit", h.Exam.Submit)
			sessions.GET("/time", h.Exam.RemainingTime)
			sessions.POST("/violations", h.Exam.ReportViolation)
			sessions.POST("/snapshot", h.Exam.UploadSnapshot)
		}
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdminKey(cfg.AdminAPIKey))
	{
		admin.POST("/tests", h.Test.Create)
		admin.GET("/tests", h.Test.List)
		admin.GET("/tests/:test_id", h.Test.Get)
		admin.PUT("/tests/:test_id", h.Test.Update)
		admin.DELETE("/tests/:test_id", h.Test.Delete)

		admin.POST("/tests/:test_id/students", h.Student.Assign)
		admin.GET("/tests/:test_id/students", h.Student.List)
		admin.DELETE("/students/:student_id", h.Student.Remove)

		admin.POST("/papers", h.Question.CreatePaper)
		admin.GET("/papers", h.Question.ListPapers)
		admin.GET("/papers/:paper_id/status", h.Question.PaperStatus)
		admin.GET("/papers/:paper_id/questions", h.Question.ListQuestions)
		admin.POST("/papers/:paper_id/questions", h.Question.AddQuestion)
		admin.PUT("/questions/:question_id", h.Question.UpdateQuestion)
		admin.DELETE("/questions/:question_id", h.Question.DeleteQuestion)

		admin.GET("/tests/:test_id/results", h.Result.List)
		admin.GET("/results", h.Result.ListAll)
		admin.GET("/results/:session_id", h.Result.Detail)
		admin.PUT("/results/:session_id/review", h.Result.Review)
		admin.POST("/results/:session_id/publish", h.Result.Publish)
		admin.POST("/sessions/:session_id/terminate", h.Result.Terminate)
	}

	ws := r.Group("/ws/v1")
	{
		ws.GET("/exam/:session_id/proctoring", middleware.RequireCredential(cfg.JWTSecret), h.WS.StudentSocket)
		ws.GET("/admin/monitor", middleware.RequireAdminKey(cfg.AdminAPIKey), h.WS.AdminSocket)
	}

	return r
}
