package service

import (
	"fmt"
	"regexp"
	"strings"

	"simco_backend/internal/model"
	"simco_backend/internal/util"
)

const (
	defaultQuestionText = "Question de quiz"
	defaultExplanation  = "Pas d'explication disponible"
)

// 选项行：单个字母A-D（忽略大小写）、可选的右括号、然后是选项文本。
// 注意：选项在数组中的位置由出现顺序决定，而不是字母值——
// 字母乱序的生成结果仍可解析，代价是索引与字母可能错位，
// 调用方不得依赖字母到索引的映射。
var optionPattern = regexp.MustCompile(`(?i)^[A-D]\)?\s*(.+)$`)

// ParseQuizResponse 把生成的原始文本解析为结构化题目。
// 捕获到的选项不足2个时解析失败；2-3个时用占位选项补齐到4个。
func ParseQuizResponse(text string) (*model.Question, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	question := ""
	options := []string{}
	correctAnswer := 0
	explanation := ""

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Question:") || (i == 0 && !looksLikeOption(line)):
			question = strings.TrimSpace(strings.ReplaceAll(line, "Question:", ""))
		case optionPattern.MatchString(line):
			match := optionPattern.FindStringSubmatch(line)
			options = append(options, strings.TrimSpace(match[1]))
		case strings.HasPrefix(line, "Réponse correcte:") || strings.HasPrefix(line, "Correct:"):
			parts := strings.Split(line, ":")
			answerText := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1]))
			if len(answerText) == 1 && answerText >= "A" && answerText <= "D" {
				correctAnswer = int(answerText[0] - 'A')
			}
		case strings.HasPrefix(line, "Explication:"):
			explanation = strings.TrimSpace(strings.ReplaceAll(line, "Explication:", ""))
		}
	}

	if len(options) < 2 {
		return nil, util.ErrParseFailure
	}

	for len(options) < 4 {
		options = append(options, fmt.Sprintf("Option %d", len(options)+1))
	}
	options = options[:4]

	if question == "" {
		question = defaultQuestionText
	}
	if explanation == "" {
		explanation = defaultExplanation
	}

	return &model.Question{
		Text:          question,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
	}, nil
}

func looksLikeOption(line string) bool {
	for _, prefix := range []string{"A)", "B)", "C)", "D)"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
