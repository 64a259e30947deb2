package service

import (
	"math"

	"simco_backend/internal/model"
)

// ScoreSummary 当前得分情况
type ScoreSummary struct {
	Score      int     `json:"score"`
	Total      int     `json:"total_questions"`
	Percentage float64 `json:"percentage"`
}

// PerformanceLevel 成绩档位，阈值为固定设计常量
type PerformanceLevel struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Color   string `json:"color"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeScore total为0时百分比定义为0，不产生除零
func ComputeScore(session *model.QuizSession) ScoreSummary {
	percentage := 0.0
	if session.TotalQuestions > 0 {
		percentage = float64(session.Score) / float64(session.TotalQuestions) * 100
	}
	return ScoreSummary{
		Score:      session.Score,
		Total:      session.TotalQuestions,
		Percentage: round2(percentage),
	}
}

func ClassifyPerformance(percentage float64) PerformanceLevel {
	switch {
	case percentage >= 80:
		return PerformanceLevel{
			Level:   "Excellent",
			Message: "Félicitations ! Vous maîtrisez très bien ce sujet.",
			Color:   "success",
		}
	case percentage >= 60:
		return PerformanceLevel{
			Level:   "Bien",
			Message: "Bonne performance ! Continuez à vous améliorer.",
			Color:   "good",
		}
	case percentage >= 40:
		return PerformanceLevel{
			Level:   "Moyen",
			Message: "Des progrès sont nécessaires. Révisez les concepts clés.",
			Color:   "average",
		}
	default:
		return PerformanceLevel{
			Level:   "À améliorer",
			Message: "Il est recommandé de revoir les fondamentaux.",
			Color:   "needs-improvement",
		}
	}
}

// RecommendationsFor 按成绩区间返回固定的学习建议
func RecommendationsFor(percentage float64) []string {
	switch {
	case percentage < 50:
		return []string{
			"Revoir les concepts de base du sujet",
			"Pratiquer régulièrement avec des exercices",
			"Consulter des ressources pédagogiques supplémentaires",
			"Demander de l'aide à un professeur ou tuteur",
		}
	case percentage < 70:
		return []string{
			"Approfondir les points faibles identifiés",
			"Pratiquer avec des questions plus complexes",
			"Réviser les explications des questions ratées",
		}
	case percentage < 90:
		return []string{
			"Continuer à pratiquer régulièrement",
			"Explorer des sujets avancés",
			"Partager vos connaissances avec d'autres",
		}
	default:
		return []string{
			"Excellent travail ! Maintenez ce niveau",
			"Explorez des défis plus avancés",
			"Envisagez de mentorer d'autres étudiants",
		}
	}
}
