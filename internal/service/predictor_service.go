package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"simco_backend/internal/config"
	"simco_backend/internal/model"
)

// PredictorFeatures 学习模型的4维特征向量（整场会话的均值）
type PredictorFeatures struct {
	BlinkRate     float64 `json:"blink_rate"`
	HeadMovement  float64 `json:"head_movement_score"`
	GazeStability float64 `json:"gaze_stability"`
	Confidence    float64 `json:"confidence"`
}

// BehavioralPredictor 训练好的行为模型服务。
// 可能未配置（特征开关），此时分析器只走规则路径。
type BehavioralPredictor interface {
	Available() bool
	Predict(ctx context.Context, features PredictorFeatures) (*model.MLPrediction, error)
}

// PredictorService 调用模型服务的HTTP客户端
type PredictorService struct {
	config config.PredictorConfig
	client *http.Client
}

func NewPredictorService(cfg config.PredictorConfig) *PredictorService {
	return &PredictorService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *PredictorService) Available() bool {
	return s.config.Enabled && s.config.BaseURL != ""
}

// Ping 启动时的能力探测，失败只降级不阻断
func (s *PredictorService) Ping(ctx context.Context) error {
	url := strings.TrimRight(s.config.BaseURL, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("predictor health check: status %d", resp.StatusCode)
	}
	return nil
}

func (s *PredictorService) Predict(ctx context.Context, features PredictorFeatures) (*model.MLPrediction, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(s.config.BaseURL, "/") + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("predictor: status %d: %s", resp.StatusCode, string(raw))
	}

	var prediction model.MLPrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}
