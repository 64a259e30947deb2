package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"simco_backend/internal/config"
	"simco_backend/internal/util"
)

// QuestionGenerator 文本生成后端，返回未结构化的题目文本。
// 任何非2xx、传输错误或空文本都视为生成失败。
type QuestionGenerator interface {
	Generate(ctx context.Context, subject, level, userInfo string) (string, error)
}

// OllamaService 调用Ollama兼容的 /api/generate 接口
type OllamaService struct {
	mu     sync.RWMutex
	config config.OllamaConfig
	client *http.Client
}

func NewOllamaService(cfg config.OllamaConfig) *OllamaService {
	return &OllamaService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// UpdateConfig 配置热更新回调
func (s *OllamaService) UpdateConfig(cfg config.OllamaConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func buildQuestionPrompt(subject, level, userInfo string) string {
	return fmt.Sprintf(`Génère une question de quiz à choix multiples en %s pour un niveau %s. %s

Format EXACT requis (respecte ce format strictement):
Question: [La question ici]
A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]
Réponse correcte: [A, B, C ou D]
Explication: [Brève explication de la réponse]`, subject, level, userInfo)
}

func (s *OllamaService) Generate(ctx context.Context, subject, level, userInfo string) (string, error) {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	payload := ollamaGenerateRequest{
		Model:  cfg.Model,
		Prompt: buildQuestionPrompt(subject, level, userInfo),
		Stream: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", util.ErrGeneratorUnavailable, resp.StatusCode, string(raw))
	}

	var data ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrGeneratorUnavailable, err)
	}
	if data.Error != "" {
		return "", fmt.Errorf("%w: %s", util.ErrGeneratorUnavailable, data.Error)
	}
	if strings.TrimSpace(data.Response) == "" {
		return "", fmt.Errorf("%w: empty generation", util.ErrGeneratorUnavailable)
	}

	return data.Response, nil
}
