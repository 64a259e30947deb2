// 手动导出训练特征脚本
//
// 该功能已通过 POST /api/training/export 接口提供。
// 此脚本用于没有运行中服务时的离线导出，例如模型再训练前的数据准备。
//
// 用法: go run scripts/export_training.go

package main

import (
	"context"
	"log"

	"simco_backend/internal/config"
	"simco_backend/internal/repository"
	"simco_backend/internal/service"
	"simco_backend/pkg/database"
	"simco_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	trainingRepo := repository.NewTrainingRepository(db)
	storage := service.NewStorageService(cfg)
	collector := service.NewCollectorService(trainingRepo, storage, cfg.Training.DataPath)

	result, err := collector.ExportFeaturesCSV(context.Background())
	if err != nil {
		log.Fatalf("导出失败: %v", err)
	}

	log.Printf("已导出 %d 条样本到 %s", result.Samples, result.FilePath)
	if result.ArchiveURL != "" {
		log.Printf("归档地址: %s", result.ArchiveURL)
	}
}
