package controller

import (
	"simco_backend/internal/service"
	"simco_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TrainingController struct {
	collector *service.CollectorService
}

func NewTrainingController(collector *service.CollectorService) *TrainingController {
	return &TrainingController{collector: collector}
}

// Stats 训练数据统计
// @Summary 训练样本统计
// @Tags Training
// @Produce json
// @Success 200 {object} service.TrainingStats
// @Router /api/training/stats [get]
func (c *TrainingController) Stats(ctx *gin.Context) {
	stats, err := c.collector.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Export 导出特征CSV
// @Summary 导出训练特征CSV
// @Description 全量样本导出为特征文件并归档到对象存储
// @Tags Training
// @Produce json
// @Success 200 {object} service.ExportResult
// @Router /api/training/export [post]
func (c *TrainingController) Export(ctx *gin.Context) {
	result, err := c.collector.ExportFeaturesCSV(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
