package service

import (
	"errors"
	"testing"

	"simco_backend/internal/util"
)

func TestParseQuizResponse_WellFormed(t *testing.T) {
	text := `Question: Quelle est la capitale de la France ?
A) Lyon
B) Paris
C) Marseille
D) Lille
Réponse correcte: B
Explication: Paris est la capitale depuis des siècles.`

	q, err := ParseQuizResponse(text)
	if err != nil {
		t.Fatalf("ParseQuizResponse returned error: %v", err)
	}

	if q.Text != "Quelle est la capitale de la France ?" {
		t.Errorf("question = %q", q.Text)
	}
	if len(q.Options) != 4 {
		t.Fatalf("len(options) = %d, want 4", len(q.Options))
	}
	if q.Options[1] != "Paris" {
		t.Errorf("options[1] = %q, want Paris", q.Options[1])
	}
	if q.CorrectAnswer != 1 {
		t.Errorf("correct_answer = %d, want 1", q.CorrectAnswer)
	}
	if q.Explanation != "Paris est la capitale depuis des siècles." {
		t.Errorf("explanation = %q", q.Explanation)
	}
}

func TestParseQuizResponse_AnswerLetters(t *testing.T) {
	tests := []struct {
		letter string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"C", 2},
		{"D", 3},
		{"b", 1},
		{"E", 0},  // 超出范围保持默认
		{"AB", 0}, // 多字符保持默认
	}

	for _, tc := range tests {
		text := "Question: test\nA) un\nB) deux\nC) trois\nD) quatre\nRéponse correcte: " + tc.letter
		q, err := ParseQuizResponse(text)
		if err != nil {
			t.Fatalf("letter %q: unexpected error %v", tc.letter, err)
		}
		if q.CorrectAnswer != tc.want {
			t.Errorf("letter %q: correct_answer = %d, want %d", tc.letter, q.CorrectAnswer, tc.want)
		}
	}
}

func TestParseQuizResponse_TooFewOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no options", "Question: test\nExplication: rien"},
		{"single option", "Question: test\nA) seule option"},
	}

	for _, tc := range tests {
		_, err := ParseQuizResponse(tc.text)
		if !errors.Is(err, util.ErrParseFailure) {
			t.Errorf("%s: err = %v, want ErrParseFailure", tc.name, err)
		}
	}
}

func TestParseQuizResponse_PadsMissingOptions(t *testing.T) {
	text := "Question: test\nA) un\nB) deux"

	q, err := ParseQuizResponse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Options) != 4 {
		t.Fatalf("len(options) = %d, want 4", len(q.Options))
	}
	if q.Options[2] != "Option 3" || q.Options[3] != "Option 4" {
		t.Errorf("padded options = %q, %q", q.Options[2], q.Options[3])
	}
}

func TestParseQuizResponse_CapsExtraOptions(t *testing.T) {
	// 字母重复时选项按出现顺序累积，超过4个被截断
	text := "Question: test\nA) un\nB) deux\nC) trois\nD) quatre\nA) cinq"

	q, err := ParseQuizResponse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Options) != 4 {
		t.Fatalf("len(options) = %d, want 4", len(q.Options))
	}
	if q.Options[3] != "quatre" {
		t.Errorf("options[3] = %q, want quatre", q.Options[3])
	}
}

func TestParseQuizResponse_Defaults(t *testing.T) {
	text := "A) un\nB) deux"

	q, err := ParseQuizResponse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "Question de quiz" {
		t.Errorf("question = %q, want default", q.Text)
	}
	if q.Explanation != "Pas d'explication disponible" {
		t.Errorf("explanation = %q, want default", q.Explanation)
	}
	if q.CorrectAnswer != 0 {
		t.Errorf("correct_answer = %d, want 0", q.CorrectAnswer)
	}
}

func TestParseQuizResponse_FirstLineWithoutPrefixIsQuestion(t *testing.T) {
	text := "Combien font 2 + 2 ?\nA) 3\nB) 4\nRéponse correcte: B"

	q, err := ParseQuizResponse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "Combien font 2 + 2 ?" {
		t.Errorf("question = %q", q.Text)
	}
	if q.CorrectAnswer != 1 {
		t.Errorf("correct_answer = %d, want 1", q.CorrectAnswer)
	}
}
