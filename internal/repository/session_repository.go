package repository

import (
	"context"
	"errors"

	"simco_backend/internal/model"
	"simco_backend/internal/util"
)

// SessionRepository 会话状态机的唯一变更入口。
// 存储后端通过SessionStore注入，调用契约与后端无关。
type SessionRepository struct {
	Store SessionStore
}

func NewSessionRepository(store SessionStore) *SessionRepository {
	return &SessionRepository{Store: store}
}

// AnswerResult 单次作答的结算结果
type AnswerResult struct {
	IsCorrect      bool
	CorrectAnswer  int
	Explanation    string
	Score          int
	TotalQuestions int
}

func (r *SessionRepository) CreateSession(ctx context.Context, questions []model.Question) (*model.QuizSession, error) {
	if len(questions) == 0 {
		return nil, errors.New("a session requires at least one question")
	}

	session := model.NewQuizSession(questions)
	if err := r.Store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*model.QuizSession, error) {
	return r.Store.Get(ctx, sessionID)
}

// RecordAnswer 记录一次作答。重复提交返回ErrAlreadyAnswered而非幂等成功，
// 防止客户端重试导致分数虚增。
func (r *SessionRepository) RecordAnswer(ctx context.Context, sessionID, questionID string, selected, confidence int, metrics *model.BehavioralMetrics) (*AnswerResult, error) {
	var result AnswerResult

	err := r.Store.Update(ctx, sessionID, func(session *model.QuizSession) error {
		question := session.FindQuestion(questionID)
		if question == nil {
			return util.ErrQuestionNotFound
		}
		if session.HasAnswered(questionID) {
			return util.ErrAlreadyAnswered
		}

		isCorrect := selected == question.CorrectAnswer
		if isCorrect {
			session.Score++
		}

		session.Answered = append(session.Answered, questionID)
		session.UserAnswers[questionID] = selected
		session.Confidence[questionID] = confidence
		if metrics != nil {
			session.Behavioral[questionID] = *metrics
		}

		result = AnswerResult{
			IsCorrect:      isCorrect,
			CorrectAnswer:  question.CorrectAnswer,
			Explanation:    question.Explanation,
			Score:          session.Score,
			TotalQuestions: session.TotalQuestions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateConfidence 测验结束后的整体置信度回填：
// 覆盖所有已作答题目的逐题置信度，并记录整体值。
func (r *SessionRepository) UpdateConfidence(ctx context.Context, sessionID string, confidence *int) (int, error) {
	if confidence == nil {
		return 0, util.ErrConfidenceRequired
	}

	updated := 0
	err := r.Store.Update(ctx, sessionID, func(session *model.QuizSession) error {
		for _, questionID := range session.Answered {
			session.Confidence[questionID] = *confidence
		}
		session.OverallConfidence = confidence
		updated = len(session.Answered)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
