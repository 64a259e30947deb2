package app

import (
	"simco_backend/docs"
	"simco_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.health.Root)

	api := router.Group("/api")
	{
		api.GET("/health", c.health.Health)

		// 测验会话
		api.POST("/generate-question", c.quiz.GenerateQuestion)
		api.POST("/generate-quiz", c.quiz.GenerateQuiz)
		api.POST("/submit-answer", c.quiz.SubmitAnswer)
		api.POST("/update-confidence", c.quiz.UpdateConfidence)
		api.GET("/quiz-score/:sessionId", c.quiz.GetScore)
		api.GET("/quiz-results/:sessionId", c.quiz.GetResults)

		// 训练数据
		training := api.Group("/training")
		{
			training.GET("/stats", c.training.Stats)
			training.POST("/export", c.training.Export)
		}
	}
}
