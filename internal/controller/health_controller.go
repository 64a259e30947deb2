package controller

import (
	"net/http"

	"simco_backend/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	appName    = "SIMCO - Cognitive Evaluation System"
	appVersion = "1.0.0"
)

type HealthController struct {
	predictor   service.BehavioralPredictor
	ollamaModel string
}

func NewHealthController(predictor service.BehavioralPredictor, ollamaModel string) *HealthController {
	return &HealthController{predictor: predictor, ollamaModel: ollamaModel}
}

// Root 服务入口信息
// @Summary 服务信息
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"name":    appName,
		"version": appVersion,
		"status":  "running",
	})
}

// Health 健康检查
// @Summary 健康检查
// @Description 返回服务状态、生成模型与行为预测服务的可用性
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	predictorAvailable := c.predictor != nil && c.predictor.Available()
	ctx.JSON(http.StatusOK, gin.H{
		"status":              "healthy",
		"model":               c.ollamaModel,
		"predictor_available": predictorAvailable,
	})
}
