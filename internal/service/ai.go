package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mistressbot/internal/model"
)

// AIService talks to an OpenAI-compatible chat-completions endpoint.
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAIService(baseURL, apiKey, model string) *AIService {
	return &AIService{baseURL: baseURL, apiKey: apiKey, model: model, client: &http.Client{}}
}

// Chat sends one system instruction, prior history, and the user message, and
// returns the completion text. An empty completion is returned as "" with a
// nil error; the caller decides how to surface it.
func (s *AIService) Chat(ctx context.Context, system string, history []model.HistoryItem, user string, maxTokens int) (string, error) {
	messages := []map[string]string{{"role": "system", "content": system}}
	for _, h := range history {
		messages = append(messages, map[string]string{"role": h.Role, "content": h.Content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": user})

	body := map[string]interface{}{
		"model":      s.model,
		"max_tokens": maxTokens,
		"messages":   messages,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}

	data, _ := io.ReadAll(resp.Body)
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
