package service

import (
	"context"
	"fmt"

	"simco_backend/internal/model"
	"simco_backend/pkg/logger"
	"simco_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// 规则路径的阈值，固定设计常量，不走配置
const (
	highStressBlinkRate      = 30.0
	highStressHeadMovement   = 5.0
	mediumStressBlinkRate    = 20.0
	mediumStressHeadMovement = 3.0
	questionStressBlinkRate  = 25.0

	lowGazeStability  = 0.6
	highGazeStability = 0.8

	overconfidentThreshold  = 70
	underconfidentThreshold = 40
	calibrationMismatchMin  = 2

	stressPerformancePoor = 0.3
	stressPerformanceGood = 0.7

	mlStressInsightThreshold    = 0.7
	mlAttentionInsightThreshold = 0.6
	mlConfidenceErrorThreshold  = 30.0
)

// BehaviorService 行为推断引擎。
// 两条互斥的执行路径：配置了可用的预测模型时走学习模型路径，
// 失败时回退到规则路径；分析永远尽力而为，不阻断结果返回。
type BehaviorService struct {
	predictor BehavioralPredictor
}

func NewBehaviorService(predictor BehavioralPredictor) *BehaviorService {
	return &BehaviorService{predictor: predictor}
}

func (s *BehaviorService) Analyze(ctx context.Context, session *model.QuizSession) *model.BehavioralAnalysis {
	if len(session.Behavioral) == 0 {
		return model.NewNeutralAnalysis()
	}

	if s.predictor != nil && s.predictor.Available() {
		analysis, err := s.analyzeWithModel(ctx, session)
		if err == nil {
			return analysis
		}
		logger.Log.Warn("ML prediction failed, falling back to rule-based analysis", zap.Error(err))
		monitoring.PredictorFallbacks.Inc()
	}

	return s.analyzeWithRules(session)
}

// analyzeWithModel 整场会话的均值特征交给训练好的模型
func (s *BehaviorService) analyzeWithModel(ctx context.Context, session *model.QuizSession) (*model.BehavioralAnalysis, error) {
	var totalBlink, totalHead, totalGaze float64
	for _, metrics := range session.Behavioral {
		totalBlink += metrics.BlinkRate
		totalHead += metrics.HeadMovementScore
		totalGaze += metrics.GazeStability
	}
	count := float64(len(session.Behavioral))

	avgConfidence := 50.0
	if len(session.Confidence) > 0 {
		total := 0
		for _, c := range session.Confidence {
			total += c
		}
		avgConfidence = float64(total) / float64(len(session.Confidence))
	}

	features := PredictorFeatures{
		BlinkRate:     totalBlink / count,
		HeadMovement:  totalHead / count,
		GazeStability: totalGaze / count,
		Confidence:    avgConfidence,
	}

	prediction, err := s.predictor.Predict(ctx, features)
	if err != nil {
		return nil, err
	}

	analysis := model.NewNeutralAnalysis()
	analysis.MLPredictions = prediction
	analysis.OverallStressLevel = prediction.StressLevel
	analysis.AvgBlinkRate = round2(features.BlinkRate)
	analysis.AvgHeadMovement = round2(features.HeadMovement)
	analysis.AvgGazeStability = round2(features.GazeStability)

	if prediction.StressProbability > mlStressInsightThreshold {
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Modèle ML détecte un stress élevé (probabilité: %.0f%%)", prediction.StressProbability*100))
	}
	if prediction.LowAttentionProbability > mlAttentionInsightThreshold {
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Attention fluctuante détectée (probabilité: %.0f%%)", prediction.LowAttentionProbability*100))
	}
	if prediction.PredictedConfidenceError > mlConfidenceErrorThreshold {
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Calibration de confiance à améliorer (erreur prédite: %.1f)", prediction.PredictedConfidenceError))
	}

	return analysis, nil
}

// analyzeWithRules 固定阈值的启发式路径，始终可用且确定
func (s *BehaviorService) analyzeWithRules(session *model.QuizSession) *model.BehavioralAnalysis {
	analysis := model.NewNeutralAnalysis()

	var totalBlink, totalHead, totalGaze float64
	count := 0

	highStressQuestions := []string{}
	overconfident := 0
	underconfident := 0

	for _, q := range session.Questions {
		metrics, ok := session.Behavioral[q.ID]
		if !ok {
			// 没有行为数据的题目不计入均值，而不是按零处理
			continue
		}

		totalBlink += metrics.BlinkRate
		totalHead += metrics.HeadMovementScore
		totalGaze += metrics.GazeStability
		count++

		if metrics.BlinkRate > questionStressBlinkRate {
			highStressQuestions = append(highStressQuestions, q.ID)
		}

		confidence, hasConfidence := session.Confidence[q.ID]
		answer, hasAnswer := session.UserAnswers[q.ID]
		if hasConfidence && hasAnswer {
			isCorrect := answer == q.CorrectAnswer
			if confidence > overconfidentThreshold && !isCorrect {
				overconfident++
			} else if confidence < underconfidentThreshold && isCorrect {
				underconfident++
			}
		}
	}

	if count > 0 {
		analysis.AvgBlinkRate = round2(totalBlink / float64(count))
		analysis.AvgHeadMovement = round2(totalHead / float64(count))
		analysis.AvgGazeStability = round2(totalGaze / float64(count))
	}

	// 压力水平
	switch {
	case analysis.AvgBlinkRate > highStressBlinkRate || analysis.AvgHeadMovement > highStressHeadMovement:
		analysis.OverallStressLevel = model.StressHigh
		analysis.Insights = append(analysis.Insights, "Niveau de stress élevé détecté pendant le quiz")
	case analysis.AvgBlinkRate > mediumStressBlinkRate || analysis.AvgHeadMovement > mediumStressHeadMovement:
		analysis.OverallStressLevel = model.StressMedium
		analysis.Insights = append(analysis.Insights, "Niveau de stress modéré observé")
	default:
		analysis.OverallStressLevel = model.StressLow
		analysis.Insights = append(analysis.Insights, "Niveau de stress faible - bonne gestion émotionnelle")
	}

	// 注视稳定性，中间区间保持沉默
	if analysis.AvgGazeStability < lowGazeStability {
		analysis.Insights = append(analysis.Insights, "Attention fluctuante - détournements du regard fréquents")
	} else if analysis.AvgGazeStability > highGazeStability {
		analysis.Insights = append(analysis.Insights, "Excellente concentration maintenue tout au long du quiz")
	}

	// 置信度校准
	if overconfident+underconfident > 0 {
		if overconfident > underconfident && overconfident > calibrationMismatchMin {
			analysis.ConfidenceCalibration = model.CalibrationOverconfident
			analysis.Insights = append(analysis.Insights, "Tendance à la surconfiance - améliorer l'auto-évaluation")
		} else if underconfident > overconfident && underconfident > calibrationMismatchMin {
			analysis.ConfidenceCalibration = model.CalibrationUnderconfident
			analysis.Insights = append(analysis.Insights, "Manque de confiance en soi malgré de bonnes connaissances")
		} else {
			analysis.Insights = append(analysis.Insights, "Bonne calibration de la confiance")
		}
	}

	// 压力与正确率的相关性；没有高压力题目时跳过
	if len(highStressQuestions) > 0 {
		correctUnderStress := 0
		for _, questionID := range highStressQuestions {
			answer, ok := session.UserAnswers[questionID]
			if !ok {
				continue
			}
			question := session.FindQuestion(questionID)
			if question != nil && answer == question.CorrectAnswer {
				correctUnderStress++
			}
		}

		stressPerformance := float64(correctUnderStress) / float64(len(highStressQuestions))
		if stressPerformance < stressPerformancePoor {
			analysis.Insights = append(analysis.Insights, "Le stress impacte négativement vos performances")
		} else if stressPerformance > stressPerformanceGood {
			analysis.Insights = append(analysis.Insights, "Bonne gestion du stress même sous pression")
		}
	}

	return analysis
}
