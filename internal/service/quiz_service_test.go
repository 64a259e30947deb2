package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"simco_backend/internal/model"
	"simco_backend/internal/repository"
	"simco_backend/internal/util"
)

// stubGenerator 按脚本依次返回结果的生成器替身
type stubGenerator struct {
	script []func() (string, error)
	calls  int
}

func (g *stubGenerator) Generate(ctx context.Context, subject, level, userInfo string) (string, error) {
	if g.calls >= len(g.script) {
		return "", util.ErrGeneratorUnavailable
	}
	step := g.script[g.calls]
	g.calls++
	return step()
}

func ok(stem string) func() (string, error) {
	text := "Question: " + stem + "\nA) un\nB) deux\nC) trois\nD) quatre\nRéponse correcte: A\nExplication: ok"
	return func() (string, error) { return text, nil }
}

func fail() func() (string, error) {
	return func() (string, error) { return "", util.ErrGeneratorUnavailable }
}

func garbage() func() (string, error) {
	return func() (string, error) { return "texte sans options exploitables", nil }
}

func newTestQuizService(generator QuestionGenerator) *QuizService {
	sessionRepo := repository.NewSessionRepository(repository.NewMemorySessionStore())
	behavior := NewBehaviorService(nil)
	return NewQuizService(sessionRepo, generator, behavior, nil, false)
}

func TestGenerateQuiz_SkipsFailures(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){
		ok("première"), fail(), garbage(), ok("deuxième"), ok("troisième"),
	}}
	svc := newTestQuizService(generator)

	resp, err := svc.GenerateQuiz(context.Background(), &QuestionRequest{Subject: "maths"}, 5)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}

	if resp.TotalQuestions != 3 {
		t.Fatalf("total = %d, want 3", resp.TotalQuestions)
	}
	wantStems := []string{"première", "deuxième", "troisième"}
	for i, q := range resp.Questions {
		if q.Text != wantStems[i] {
			t.Errorf("questions[%d] = %q, want %q", i, q.Text, wantStems[i])
		}
		if q.ID == "" {
			t.Errorf("questions[%d] missing ID", i)
		}
	}
}

func TestGenerateQuiz_AllFailures(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){
		fail(), garbage(), fail(),
	}}
	svc := newTestQuizService(generator)

	_, err := svc.GenerateQuiz(context.Background(), &QuestionRequest{Subject: "maths"}, 3)
	if !errors.Is(err, util.ErrNoQuestionsGenerated) {
		t.Errorf("err = %v, want ErrNoQuestionsGenerated", err)
	}
}

func TestGenerateQuestion_Parsed(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("capitale")}}
	svc := newTestQuizService(generator)

	resp, err := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	if err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("session_id missing")
	}
	if resp.QuestionID == "" {
		t.Error("question_id missing")
	}
	if resp.Question != "capitale" || len(resp.Options) != 4 {
		t.Errorf("question = %+v", resp)
	}
	if resp.Explanation != "ok" {
		t.Errorf("explanation = %q", resp.Explanation)
	}
}

func TestGenerateQuestion_WithholdsCorrectAnswer(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("capitale")}}
	svc := newTestQuizService(generator)

	resp, err := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	if err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}

	// 正确答案只能在作答提交后返回，下发的题目里不得出现
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "correct_answer") {
		t.Errorf("response leaks correct_answer: %s", raw)
	}

	// 会话内部仍然记录正确答案，判分不受影响
	selected := 0
	answer, err := svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      resp.SessionID,
		QuestionID:     resp.QuestionID,
		SelectedOption: &selected,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !answer.IsCorrect || answer.CorrectAnswer != 0 {
		t.Errorf("answer = %+v", answer)
	}
}

func TestGenerateQuestion_DegradedOnParseFailure(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){garbage()}}
	svc := newTestQuizService(generator)

	resp, err := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	if err != nil {
		t.Fatalf("parse failure must degrade, not error: %v", err)
	}
	if resp.Question != "texte sans options exploitables" {
		t.Errorf("degraded question = %q", resp.Question)
	}
	if len(resp.Options) != 0 {
		t.Errorf("degraded options = %v, want empty", resp.Options)
	}
	if resp.Explanation != "Réponse non disponible" {
		t.Errorf("degraded explanation = %q", resp.Explanation)
	}
}

func TestGenerateQuestion_UpstreamError(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){fail()}}
	svc := newTestQuizService(generator)

	_, err := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	if !errors.Is(err, util.ErrGeneratorUnavailable) {
		t.Errorf("err = %v, want ErrGeneratorUnavailable", err)
	}
}

func TestSubmitAnswer_InvalidMetrics(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("stem")}}
	svc := newTestQuizService(generator)

	quiz, err := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	if err != nil {
		t.Fatal(err)
	}

	selected := 0
	_, err = svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      quiz.SessionID,
		QuestionID:     quiz.QuestionID,
		SelectedOption: &selected,
		Behavioral:     &model.BehavioralMetrics{BlinkRate: -1},
	})
	if !errors.Is(err, util.ErrInvalidMetrics) {
		t.Errorf("err = %v, want ErrInvalidMetrics", err)
	}
}

func TestSubmitAnswer_DefaultConfidence(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("stem")}}
	svc := newTestQuizService(generator)

	quiz, _ := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})

	selected := 0
	resp, err := svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      quiz.SessionID,
		QuestionID:     quiz.QuestionID,
		SelectedOption: &selected,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !resp.IsCorrect || resp.Score != 1 {
		t.Errorf("resp = %+v, want correct", resp)
	}
}

func TestGetResults_WithoutBehavioralData(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("stem")}}
	svc := newTestQuizService(generator)

	quiz, _ := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	selected := 0
	svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      quiz.SessionID,
		QuestionID:     quiz.QuestionID,
		SelectedOption: &selected,
	})

	results, err := svc.GetResults(context.Background(), quiz.SessionID)
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}

	if results.BehavioralAnalysis != nil {
		t.Error("behavioral_analysis must be absent without metrics")
	}
	if results.BehavioralInsights == nil || len(results.BehavioralInsights) != 0 {
		t.Errorf("behavioral_insights = %v, want empty list", results.BehavioralInsights)
	}
	if results.AnsweredCount != 1 {
		t.Errorf("answered_count = %d, want 1", results.AnsweredCount)
	}
	if results.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", results.Percentage)
	}
	if results.Performance.Level != "Excellent" {
		t.Errorf("level = %q", results.Performance.Level)
	}
	if len(results.QuestionResults) != 1 {
		t.Fatalf("question_results = %v", results.QuestionResults)
	}
	qr := results.QuestionResults[0]
	if !qr.IsAnswered || qr.UserAnswer == nil || *qr.UserAnswer != 0 || !qr.IsCorrect {
		t.Errorf("question result = %+v", qr)
	}
}

func TestGetResults_WithBehavioralData(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("stem")}}
	svc := newTestQuizService(generator)

	quiz, _ := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	selected := 1
	_, err := svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      quiz.SessionID,
		QuestionID:     quiz.QuestionID,
		SelectedOption: &selected,
		Behavioral:     &model.BehavioralMetrics{BlinkRate: 35, GazeStability: 0.7},
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := svc.GetResults(context.Background(), quiz.SessionID)
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}

	if results.BehavioralAnalysis == nil {
		t.Fatal("behavioral_analysis missing")
	}
	if results.BehavioralAnalysis.OverallStressLevel != model.StressHigh {
		t.Errorf("stress = %q", results.BehavioralAnalysis.OverallStressLevel)
	}
	if len(results.BehavioralInsights) == 0 {
		t.Error("behavioral_insights must mirror the analysis insights")
	}
	if len(results.BehavioralInsights) != len(results.BehavioralAnalysis.Insights) {
		t.Errorf("behavioral_insights = %v", results.BehavioralInsights)
	}
	if results.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", results.Percentage)
	}
	qr := results.QuestionResults[0]
	if qr.IsCorrect {
		t.Error("answer 1 against correct 0 must be incorrect")
	}
}

func TestGetResults_UnansweredQuestion(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("a"), ok("b")}}
	svc := newTestQuizService(generator)

	quiz, err := svc.GenerateQuiz(context.Background(), &QuestionRequest{Subject: "géo"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	selected := 0
	svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      quiz.SessionID,
		QuestionID:     quiz.Questions[0].ID,
		SelectedOption: &selected,
	})

	results, err := svc.GetResults(context.Background(), quiz.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.QuestionResults) != 2 {
		t.Fatalf("question_results = %d, want 2", len(results.QuestionResults))
	}
	unanswered := results.QuestionResults[1]
	if unanswered.IsAnswered || unanswered.UserAnswer != nil || unanswered.IsCorrect {
		t.Errorf("unanswered result = %+v", unanswered)
	}
}

func TestUpdateConfidence_Overwrite(t *testing.T) {
	generator := &stubGenerator{script: []func() (string, error){ok("stem")}}
	svc := newTestQuizService(generator)

	quiz, _ := svc.GenerateQuestion(context.Background(), &QuestionRequest{Subject: "géo"})
	selected := 0
	confidence := 90
	svc.SubmitAnswer(context.Background(), &AnswerRequest{
		SessionID:      quiz.SessionID,
		QuestionID:     quiz.QuestionID,
		SelectedOption: &selected,
		Confidence:     &confidence,
	})

	overall := 40
	resp, err := svc.UpdateConfidence(context.Background(), &ConfidenceRequest{
		SessionID:  quiz.SessionID,
		Confidence: &overall,
	})
	if err != nil {
		t.Fatalf("UpdateConfidence: %v", err)
	}
	if resp.UpdatedAnswers != 1 || resp.Confidence != 40 {
		t.Errorf("resp = %+v", resp)
	}
}
