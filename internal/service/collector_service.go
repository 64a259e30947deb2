package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"simco_backend/internal/model"
	"simco_backend/internal/repository"
	"simco_backend/pkg/logger"
	"simco_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// csvFeatureColumns 导出特征文件的列顺序，与离线训练管线约定一致
var csvFeatureColumns = []string{
	"session_id", "question_id", "is_correct", "confidence",
	"blink_rate", "head_movement", "gaze_stability",
	"confidence_error", "high_stress", "low_attention",
	"overconfident", "underconfident",
}

// CollectorService 从已完成的会话中抽取训练样本并持久化，
// 供行为预测模型的离线再训练使用
type CollectorService struct {
	trainingRepo *repository.TrainingRepository
	storage      *StorageService
	dataPath     string
}

func NewCollectorService(trainingRepo *repository.TrainingRepository, storage *StorageService, dataPath string) *CollectorService {
	return &CollectorService{
		trainingRepo: trainingRepo,
		storage:      storage,
		dataPath:     dataPath,
	}
}

// CollectSession 把一场会话展开为逐题样本入库。
// 只收集既有作答又有行为指标的题目，缺置信度时按 50 处理
func (s *CollectorService) CollectSession(session *model.QuizSession) error {
	samples := BuildTrainingSamples(session)
	if len(samples) == 0 {
		return nil
	}

	if err := s.trainingRepo.CreateSamples(samples); err != nil {
		return err
	}

	monitoring.TrainingSamples.Add(float64(len(samples)))
	logger.Log.Info("训练样本已收集",
		zap.String("session_id", session.ID),
		zap.Int("samples", len(samples)))
	return nil
}

// BuildTrainingSamples 按题目顺序展开会话，派生特征在此处计算
func BuildTrainingSamples(session *model.QuizSession) []model.TrainingSample {
	var samples []model.TrainingSample
	for _, q := range session.Questions {
		answer, hasAnswer := session.UserAnswers[q.ID]
		metrics, hasMetrics := session.Behavioral[q.ID]
		if !hasAnswer || !hasMetrics {
			continue
		}

		confidence, ok := session.Confidence[q.ID]
		if !ok {
			confidence = 50
		}

		isCorrect := answer == q.CorrectAnswer
		actual := 0.0
		if isCorrect {
			actual = 100.0
		}

		samples = append(samples, model.TrainingSample{
			SessionID:       session.ID,
			QuestionID:      q.ID,
			IsCorrect:       isCorrect,
			Confidence:      confidence,
			BlinkRate:       metrics.BlinkRate,
			HeadMovement:    metrics.HeadMovementScore,
			GazeStability:   metrics.GazeStability,
			ConfidenceError: math.Abs(float64(confidence) - actual),
			HighStress:      metrics.BlinkRate > highStressBlinkRate || metrics.HeadMovementScore > highStressHeadMovement,
			LowAttention:    metrics.GazeStability < lowGazeStability,
			Overconfident:   confidence > overconfidentThreshold && !isCorrect,
			Underconfident:  confidence < underconfidentThreshold && isCorrect,
		})
	}
	return samples
}

type TrainingStats struct {
	TotalSamples int64  `json:"total_samples"`
	DataPath     string `json:"data_path"`
}

func (s *CollectorService) Stats() (*TrainingStats, error) {
	total, err := s.trainingRepo.CountSamples()
	if err != nil {
		return nil, err
	}
	return &TrainingStats{TotalSamples: total, DataPath: s.dataPath}, nil
}

type ExportResult struct {
	Samples    int    `json:"samples"`
	FilePath   string `json:"file_path"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

// ExportFeaturesCSV 把全部样本导出为特征 CSV 并归档到对象存储。
// 归档失败只记日志，本地文件仍然有效
func (s *CollectorService) ExportFeaturesCSV(ctx context.Context) (*ExportResult, error) {
	samples, err := s.trainingRepo.ListAllSamples()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return nil, err
	}
	filePath := filepath.Join(s.dataPath, "features.csv")

	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvFeatureColumns); err != nil {
		return nil, err
	}
	for _, sample := range samples {
		record := []string{
			sample.SessionID,
			sample.QuestionID,
			strconv.FormatBool(sample.IsCorrect),
			strconv.Itoa(sample.Confidence),
			strconv.FormatFloat(sample.BlinkRate, 'f', -1, 64),
			strconv.FormatFloat(sample.HeadMovement, 'f', -1, 64),
			strconv.FormatFloat(sample.GazeStability, 'f', -1, 64),
			strconv.FormatFloat(sample.ConfidenceError, 'f', -1, 64),
			strconv.FormatBool(sample.HighStress),
			strconv.FormatBool(sample.LowAttention),
			strconv.FormatBool(sample.Overconfident),
			strconv.FormatBool(sample.Underconfident),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	result := &ExportResult{Samples: len(samples), FilePath: filePath}

	if s.storage != nil {
		archiveName := fmt.Sprintf("training/features_%s.csv", time.Now().Format("20060102_150405"))
		url, err := s.storage.UploadFile(ctx, archiveName, filePath, "text/csv")
		if err != nil {
			logger.Log.Warn("训练数据归档失败", zap.Error(err))
		} else {
			result.ArchiveURL = url
		}
	}

	return result, nil
}
