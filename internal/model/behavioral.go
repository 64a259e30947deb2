package model

import "errors"

// 整体压力水平，有序：low < medium < high
const (
	StressLow    = "low"
	StressMedium = "medium"
	StressHigh   = "high"
)

// 置信度校准类别
const (
	CalibrationOverconfident  = "overconfident"
	CalibrationUnderconfident = "underconfident"
	CalibrationWellCalibrated = "well_calibrated"
)

// BehavioralMetrics 每道题一条的摄像头行为指标，附加后不可变
type BehavioralMetrics struct {
	BlinkRate         float64 `json:"blink_rate"`          // 次/分钟
	HeadMovementScore float64 `json:"head_movement_score"` // 头部移动幅度评分
	GazeStability     float64 `json:"gaze_stability"`      // [0,1]，1为完全稳定
}

func (m BehavioralMetrics) Validate() error {
	if m.BlinkRate < 0 {
		return errors.New("blink_rate must be non-negative")
	}
	if m.HeadMovementScore < 0 {
		return errors.New("head_movement_score must be non-negative")
	}
	if m.GazeStability < 0 || m.GazeStability > 1 {
		return errors.New("gaze_stability must be within [0,1]")
	}
	return nil
}

// MLPrediction 学习模型对整场会话的预测结果
type MLPrediction struct {
	StressProbability        float64 `json:"stress_probability"`
	LowAttentionProbability  float64 `json:"low_attention_probability"`
	PredictedConfidenceError float64 `json:"predicted_confidence_error"`
	StressLevel              string  `json:"stress_level"`
	AttentionLevel           string  `json:"attention_level"`
}

// BehavioralAnalysis 会话结束后的行为分析报告，只读
type BehavioralAnalysis struct {
	OverallStressLevel    string        `json:"overall_stress_level"`
	MetacognitionAccuracy string        `json:"metacognition_accuracy"`
	Insights              []string      `json:"insights"`
	AvgBlinkRate          float64       `json:"avg_blink_rate"`
	AvgHeadMovement       float64       `json:"avg_head_movement"`
	AvgGazeStability      float64       `json:"avg_gaze_stability"`
	ConfidenceCalibration string        `json:"confidence_calibration"`
	MLPredictions         *MLPrediction `json:"ml_predictions"`
}

// NewNeutralAnalysis 无任何行为数据时返回的中性报告
func NewNeutralAnalysis() *BehavioralAnalysis {
	return &BehavioralAnalysis{
		OverallStressLevel:    StressLow,
		MetacognitionAccuracy: "good",
		Insights:              []string{},
		ConfidenceCalibration: CalibrationWellCalibrated,
		MLPredictions:         nil,
	}
}
