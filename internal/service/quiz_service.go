package service

import (
	"context"
	"errors"
	"fmt"

	"simco_backend/internal/model"
	"simco_backend/internal/repository"
	"simco_backend/internal/util"
	"simco_backend/pkg/logger"
	"simco_backend/pkg/monitoring"
	"simco_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuizService 把题目生成、会话状态机、行为分析和样本收集
// 串成对外的业务操作
type QuizService struct {
	sessionRepo *repository.SessionRepository
	generator   QuestionGenerator
	behavior    *BehaviorService
	collector   *CollectorService
	autoCollect bool
}

func NewQuizService(
	sessionRepo *repository.SessionRepository,
	generator QuestionGenerator,
	behavior *BehaviorService,
	collector *CollectorService,
	autoCollect bool,
) *QuizService {
	return &QuizService{
		sessionRepo: sessionRepo,
		generator:   generator,
		behavior:    behavior,
		collector:   collector,
		autoCollect: autoCollect,
	}
}

type QuestionRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Level    string `json:"level"`
	UserInfo string `json:"user_info"`
}

// QuestionResponse 单题生成的响应。正确答案不随题目下发，
// 只在作答提交后返回
type QuestionResponse struct {
	SessionID   string   `json:"session_id"`
	QuestionID  string   `json:"question_id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
}

type QuizResponse struct {
	SessionID      string                 `json:"session_id"`
	Questions      []model.PublicQuestion `json:"questions"`
	TotalQuestions int                    `json:"total_questions"`
}

type AnswerRequest struct {
	SessionID      string                   `json:"session_id" binding:"required"`
	QuestionID     string                   `json:"question_id" binding:"required"`
	SelectedOption *int                     `json:"selected_option" binding:"required"`
	Confidence     *int                     `json:"confidence"`
	Behavioral     *model.BehavioralMetrics `json:"behavioral_metrics"`
}

type AnswerResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Score         int    `json:"score"`
	Total         int    `json:"total_questions"`
}

type ConfidenceRequest struct {
	SessionID  string `json:"session_id" binding:"required"`
	Confidence *int   `json:"confidence"`
}

type ConfidenceResponse struct {
	SessionID      string `json:"session_id"`
	Confidence     int    `json:"confidence"`
	UpdatedAnswers int    `json:"updated_answers"`
}

type ScoreResponse struct {
	SessionID     string  `json:"session_id"`
	Score         int     `json:"score"`
	Total         int     `json:"total_questions"`
	Percentage    float64 `json:"percentage"`
	AnsweredCount int     `json:"answered_count"`
}

// QuestionResult 结果页的逐题回顾，未作答题目user_answer为null
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    *int   `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	IsAnswered    bool   `json:"is_answered"`
	Explanation   string `json:"explanation"`
}

type QuizResults struct {
	SessionID          string                    `json:"session_id"`
	Score              int                       `json:"score"`
	Total              int                       `json:"total_questions"`
	Percentage         float64                   `json:"percentage"`
	Performance        PerformanceLevel          `json:"performance"`
	QuestionResults    []QuestionResult          `json:"question_results"`
	Recommendations    []string                  `json:"recommendations"`
	AnsweredCount      int                       `json:"answered_count"`
	BehavioralAnalysis *model.BehavioralAnalysis `json:"behavioral_analysis,omitempty"`
	BehavioralInsights []string                  `json:"behavioral_insights"`
}

// GenerateQuestion 生成单题并开启一个新会话。
// 生成文本解析失败时不报错，而是带着原始文本降级成一道不可判分的题
func (s *QuizService) GenerateQuestion(ctx context.Context, req *QuestionRequest) (*QuestionResponse, error) {
	raw, err := s.generator.Generate(ctx, req.Subject, req.Level, req.UserInfo)
	if err != nil {
		monitoring.QuestionGenerations.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	question, err := ParseQuizResponse(raw)
	if err != nil {
		if !errors.Is(err, util.ErrParseFailure) {
			return nil, err
		}
		monitoring.QuestionGenerations.WithLabelValues("parse_failure").Inc()
		logger.Log.Warn("生成文本无法解析，降级返回原始文本", zap.String("subject", req.Subject))
		question = &model.Question{
			Text:          raw,
			Options:       []string{},
			CorrectAnswer: 0,
			Explanation:   "Réponse non disponible",
		}
	} else {
		monitoring.QuestionGenerations.WithLabelValues("ok").Inc()
	}
	question.ID = model.GenerateUUID()

	session, err := s.sessionRepo.CreateSession(ctx, []model.Question{*question})
	if err != nil {
		return nil, err
	}

	return &QuestionResponse{
		SessionID:   session.ID,
		QuestionID:  question.ID,
		Question:    question.Text,
		Options:     question.Options,
		Explanation: question.Explanation,
	}, nil
}

// GenerateQuiz 生成完整测验。逐题调用生成器，解析失败的题直接跳过，
// 全部失败才算错误，所以返回的题数可能少于请求数
func (s *QuizService) GenerateQuiz(ctx context.Context, req *QuestionRequest, numQuestions int) (*QuizResponse, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.GenerateQuiz")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.subject", req.Subject),
		attribute.Int("quiz.requested", numQuestions),
	)

	var questions []model.Question
	for i := 0; i < numQuestions; i++ {
		raw, err := s.generator.Generate(ctx, req.Subject, req.Level, req.UserInfo)
		if err != nil {
			monitoring.QuestionGenerations.WithLabelValues("upstream_error").Inc()
			logger.Log.Warn("题目生成失败，跳过",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}

		question, err := ParseQuizResponse(raw)
		if err != nil {
			monitoring.QuestionGenerations.WithLabelValues("parse_failure").Inc()
			logger.Log.Warn("生成文本无法解析，跳过", zap.Int("index", i))
			continue
		}

		monitoring.QuestionGenerations.WithLabelValues("ok").Inc()
		question.ID = model.GenerateUUID()
		questions = append(questions, *question)
	}

	if len(questions) == 0 {
		return nil, util.ErrNoQuestionsGenerated
	}

	session, err := s.sessionRepo.CreateSession(ctx, questions)
	if err != nil {
		return nil, err
	}

	public := make([]model.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}

	logger.Log.Info("测验已生成",
		zap.String("session_id", session.ID),
		zap.Int("requested", numQuestions),
		zap.Int("generated", len(questions)))

	return &QuizResponse{
		SessionID:      session.ID,
		Questions:      public,
		TotalQuestions: len(questions),
	}, nil
}

func (s *QuizService) SubmitAnswer(ctx context.Context, req *AnswerRequest) (*AnswerResponse, error) {
	if req.Behavioral != nil {
		if err := req.Behavioral.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidMetrics, err)
		}
	}

	confidence := 50
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	result, err := s.sessionRepo.RecordAnswer(ctx, req.SessionID, req.QuestionID, *req.SelectedOption, confidence, req.Behavioral)
	if err != nil {
		return nil, err
	}

	return &AnswerResponse{
		IsCorrect:     result.IsCorrect,
		CorrectAnswer: result.CorrectAnswer,
		Explanation:   result.Explanation,
		Score:         result.Score,
		Total:         result.TotalQuestions,
	}, nil
}

func (s *QuizService) UpdateConfidence(ctx context.Context, req *ConfidenceRequest) (*ConfidenceResponse, error) {
	updated, err := s.sessionRepo.UpdateConfidence(ctx, req.SessionID, req.Confidence)
	if err != nil {
		return nil, err
	}
	return &ConfidenceResponse{
		SessionID:      req.SessionID,
		Confidence:     *req.Confidence,
		UpdatedAnswers: updated,
	}, nil
}

func (s *QuizService) GetScore(ctx context.Context, sessionID string) (*ScoreResponse, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := ComputeScore(session)
	return &ScoreResponse{
		SessionID:     session.ID,
		Score:         summary.Score,
		Total:         summary.Total,
		Percentage:    summary.Percentage,
		AnsweredCount: len(session.Answered),
	}, nil
}

// GetResults 汇总结果页：得分档位、逐题回顾、学习建议和行为分析。
// 有行为数据才触发分析；样本收集尽力而为，失败不影响结果返回
func (s *QuizService) GetResults(ctx context.Context, sessionID string) (*QuizResults, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.GetResults")
	defer span.End()
	span.SetAttributes(attribute.String("quiz.session_id", sessionID))

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := ComputeScore(session)

	questionResults := make([]QuestionResult, 0, len(session.Questions))
	for _, q := range session.Questions {
		answer, answered := session.UserAnswers[q.ID]
		qr := QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Text,
			CorrectAnswer: q.CorrectAnswer,
			IsAnswered:    answered,
			Explanation:   q.Explanation,
		}
		if answered {
			a := answer
			qr.UserAnswer = &a
			qr.IsCorrect = answer == q.CorrectAnswer
		}
		questionResults = append(questionResults, qr)
	}

	results := &QuizResults{
		SessionID:          session.ID,
		Score:              summary.Score,
		Total:              summary.Total,
		Percentage:         summary.Percentage,
		Performance:        ClassifyPerformance(summary.Percentage),
		QuestionResults:    questionResults,
		Recommendations:    RecommendationsFor(summary.Percentage),
		AnsweredCount:      len(session.Answered),
		BehavioralInsights: []string{},
	}

	if len(session.Behavioral) > 0 {
		results.BehavioralAnalysis = s.behavior.Analyze(ctx, session)
		results.BehavioralInsights = results.BehavioralAnalysis.Insights

		if s.autoCollect && s.collector != nil {
			if err := s.collector.CollectSession(session); err != nil {
				logger.Log.Warn("训练样本收集失败",
					zap.String("session_id", session.ID),
					zap.Error(err))
			}
		}
	}

	return results, nil
}
