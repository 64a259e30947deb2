package model

// QuizSession 一次答题会话的全部可变状态。
// 会话仅通过答案提交与置信度更新两个入口变更，
// 每个会话由单个交互客户端顺序驱动。
type QuizSession struct {
	ID                string                       `json:"session_id"`
	Questions         []Question                   `json:"questions"`
	Score             int                          `json:"score"`
	TotalQuestions    int                          `json:"total_questions"`
	Answered          []string                     `json:"answered"`
	UserAnswers       map[string]int               `json:"user_answers_data"`
	Confidence        map[string]int               `json:"confidence_data"`
	Behavioral        map[string]BehavioralMetrics `json:"behavioral_data"`
	OverallConfidence *int                         `json:"overall_confidence,omitempty"`
}

func NewQuizSession(questions []Question) *QuizSession {
	return &QuizSession{
		ID:             GenerateUUID(),
		Questions:      questions,
		Score:          0,
		TotalQuestions: len(questions),
		Answered:       []string{},
		UserAnswers:    make(map[string]int),
		Confidence:     make(map[string]int),
		Behavioral:     make(map[string]BehavioralMetrics),
	}
}

// Clone 深拷贝，供存储层向并发读者返回快照
func (s *QuizSession) Clone() *QuizSession {
	c := *s
	c.Questions = append([]Question(nil), s.Questions...)
	c.Answered = append([]string(nil), s.Answered...)
	c.UserAnswers = make(map[string]int, len(s.UserAnswers))
	for k, v := range s.UserAnswers {
		c.UserAnswers[k] = v
	}
	c.Confidence = make(map[string]int, len(s.Confidence))
	for k, v := range s.Confidence {
		c.Confidence[k] = v
	}
	c.Behavioral = make(map[string]BehavioralMetrics, len(s.Behavioral))
	for k, v := range s.Behavioral {
		c.Behavioral[k] = v
	}
	if s.OverallConfidence != nil {
		v := *s.OverallConfidence
		c.OverallConfidence = &v
	}
	return &c
}

func (s *QuizSession) FindQuestion(questionID string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return &s.Questions[i]
		}
	}
	return nil
}

func (s *QuizSession) HasAnswered(questionID string) bool {
	for _, id := range s.Answered {
		if id == questionID {
			return true
		}
	}
	return false
}
