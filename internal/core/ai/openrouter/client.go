package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"receita-facil/internal/infrastructure/config"
	"receita-facil/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenRouter chat completions 客戶端
type Client struct {
	config config.OpenRouterConfig
	client *resty.Client
}

// Message 對話訊息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request chat completions 請求
type Request struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// Response chat completions 回應
type Response struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://receita-facil.app").
		SetHeader("X-Title", "ReceitaFacil")

	return &Client{
		config: cfg,
		client: client,
	}
}

// GenerateResponse 送出單一 user prompt 並回傳第一個回覆內容
func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	req := Request{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "user", Content: strings.TrimSpace(prompt)},
		},
		MaxTokens: c.config.MaxTokens,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("OpenRouter returned non-200",
			zap.Int("status", resp.StatusCode()),
			zap.String("model", c.config.Model),
		)
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}
