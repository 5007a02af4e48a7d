package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"servd-api/internal/infrastructure/config"
	"servd-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Gemini 文字補全客戶端。只負責 prompt 進、原始文字出，
// 回應是否為 JSON 是提示詞約定，不是協議保證。
type Client struct {
	config *config.GeminiConfig
	client *resty.Client
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg *config.GeminiConfig) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Complete 送出 prompt 並回傳模型的原始文字回應
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	// 構建請求
	req := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": c.config.MaxTokens,
		},
	}

	start := time.Now()

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Model))

	common.LogAICall(prompt, time.Since(start), err, "")

	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("Gemini API 回傳錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Model),
		)
		return "", fmt.Errorf("Gemini API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty content in Gemini response")
	}

	common.LogInfo("Gemini 回應成功",
		zap.String("model", c.config.Model),
		zap.Int("content_length", len(text)),
	)

	return text, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
