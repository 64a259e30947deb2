package repository

import (
	"context"
	"errors"
	"testing"

	"simco_backend/internal/model"
	"simco_backend/internal/util"
)

func newTestRepository() *SessionRepository {
	return NewSessionRepository(NewMemorySessionStore())
}

func twoQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Text: "un", CorrectAnswer: 1, Explanation: "parce que"},
		{ID: "q2", Text: "deux", CorrectAnswer: 2},
	}
}

func TestCreateSession(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, twoQuestions())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID == "" {
		t.Error("session ID empty")
	}
	if session.TotalQuestions != 2 {
		t.Errorf("total = %d, want 2", session.TotalQuestions)
	}
	if session.Score != 0 || len(session.Answered) != 0 {
		t.Errorf("new session not empty: %+v", session)
	}

	if _, err := repo.CreateSession(ctx, nil); err == nil {
		t.Error("CreateSession with no questions should fail")
	}
}

func TestGet_UnknownSession(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestRecordAnswer_Scoring(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	session, _ := repo.CreateSession(ctx, twoQuestions())

	// 答对
	result, err := repo.RecordAnswer(ctx, session.ID, "q1", 1, 80, nil)
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if !result.IsCorrect || result.Score != 1 {
		t.Errorf("result = %+v, want correct with score 1", result)
	}
	if result.CorrectAnswer != 1 || result.Explanation != "parce que" {
		t.Errorf("result = %+v", result)
	}

	// 答错：分数不变
	result, err = repo.RecordAnswer(ctx, session.ID, "q2", 0, 30, nil)
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if result.IsCorrect || result.Score != 1 {
		t.Errorf("result = %+v, want incorrect with score 1", result)
	}

	stored, _ := repo.Get(ctx, session.ID)
	if stored.Score != 1 {
		t.Errorf("stored score = %d, want 1", stored.Score)
	}
	if stored.UserAnswers["q1"] != 1 || stored.UserAnswers["q2"] != 0 {
		t.Errorf("user answers = %v", stored.UserAnswers)
	}
	if stored.Confidence["q1"] != 80 || stored.Confidence["q2"] != 30 {
		t.Errorf("confidence = %v", stored.Confidence)
	}
}

func TestRecordAnswer_Rejections(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	session, _ := repo.CreateSession(ctx, twoQuestions())

	if _, err := repo.RecordAnswer(ctx, "missing", "q1", 0, 50, nil); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("unknown session: err = %v", err)
	}
	if _, err := repo.RecordAnswer(ctx, session.ID, "nope", 0, 50, nil); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("unknown question: err = %v", err)
	}

	if _, err := repo.RecordAnswer(ctx, session.ID, "q1", 1, 50, nil); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if _, err := repo.RecordAnswer(ctx, session.ID, "q1", 2, 50, nil); !errors.Is(err, util.ErrAlreadyAnswered) {
		t.Errorf("repeat answer: err = %v", err)
	}

	// 重复提交不得改变已记录的状态
	stored, _ := repo.Get(ctx, session.ID)
	if stored.Score != 1 || stored.UserAnswers["q1"] != 1 {
		t.Errorf("state changed by rejected submit: %+v", stored)
	}
}

func TestRecordAnswer_BehavioralMetrics(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	session, _ := repo.CreateSession(ctx, twoQuestions())

	metrics := &model.BehavioralMetrics{BlinkRate: 22, HeadMovementScore: 3, GazeStability: 0.75}
	if _, err := repo.RecordAnswer(ctx, session.ID, "q1", 1, 60, metrics); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if _, err := repo.RecordAnswer(ctx, session.ID, "q2", 2, 60, nil); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	stored, _ := repo.Get(ctx, session.ID)
	if got, ok := stored.Behavioral["q1"]; !ok || got.BlinkRate != 22 {
		t.Errorf("behavioral[q1] = %+v", stored.Behavioral)
	}
	if _, ok := stored.Behavioral["q2"]; ok {
		t.Error("q2 answered without metrics must not appear in behavioral data")
	}
}

func TestUpdateConfidence(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	session, _ := repo.CreateSession(ctx, twoQuestions())

	repo.RecordAnswer(ctx, session.ID, "q1", 1, 80, nil)
	repo.RecordAnswer(ctx, session.ID, "q2", 2, 30, nil)

	overall := 65
	updated, err := repo.UpdateConfidence(ctx, session.ID, &overall)
	if err != nil {
		t.Fatalf("UpdateConfidence: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}

	stored, _ := repo.Get(ctx, session.ID)
	if stored.Confidence["q1"] != 65 || stored.Confidence["q2"] != 65 {
		t.Errorf("confidence = %v, want all 65", stored.Confidence)
	}
	if stored.OverallConfidence == nil || *stored.OverallConfidence != 65 {
		t.Errorf("overall confidence = %v", stored.OverallConfidence)
	}
}

func TestUpdateConfidence_Rejections(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	session, _ := repo.CreateSession(ctx, twoQuestions())

	if _, err := repo.UpdateConfidence(ctx, session.ID, nil); !errors.Is(err, util.ErrConfidenceRequired) {
		t.Errorf("nil confidence: err = %v", err)
	}

	v := 50
	if _, err := repo.UpdateConfidence(ctx, "missing", &v); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("unknown session: err = %v", err)
	}
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	session, _ := repo.CreateSession(ctx, twoQuestions())

	snapshot, _ := repo.Get(ctx, session.ID)
	snapshot.Score = 99
	snapshot.UserAnswers["q1"] = 3

	stored, _ := repo.Get(ctx, session.ID)
	if stored.Score != 0 {
		t.Errorf("mutating a snapshot leaked into the store: score = %d", stored.Score)
	}
	if _, ok := stored.UserAnswers["q1"]; ok {
		t.Error("mutating a snapshot map leaked into the store")
	}
}
