// Package openrouter OpenRouter 聊天补全接口的流式客户端
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"alteran/internal/pkg/sse"
)

const (
	DefaultBaseURL       = "https://openrouter.ai/api/v1"
	DefaultModel         = "anthropic/claude-sonnet-4"
	DefaultFallbackModel = "google/gemini-flash-1.5"
)

// ErrNotConfigured 未配置 API Key
var ErrNotConfigured = errors.New("openrouter: api key is not configured")

// APIError 上游返回的错误, Message 可直接展示给用户
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Config 客户端配置
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
	SiteURL       string // 作为 HTTP-Referer 上报
	SiteName      string // 作为 X-Title 上报
	Timeout       time.Duration
}

// Client OpenRouter 客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(lo.Ternary(cfg.BaseURL == "", DefaultBaseURL, cfg.BaseURL), "/")
	cfg.Model = lo.Ternary(cfg.Model == "", DefaultModel, cfg.Model)
	cfg.FallbackModel = lo.Ternary(cfg.FallbackModel == "", DefaultFallbackModel, cfg.FallbackModel)
	cfg.MaxTokens = lo.Ternary(cfg.MaxTokens <= 0, 2048, cfg.MaxTokens)

	return &Client{
		cfg: cfg,
		// 超时需覆盖整个流式响应的读取过程
		httpClient: &http.Client{Timeout: lo.Ternary(cfg.Timeout <= 0, 5*time.Minute, cfg.Timeout)},
		logger:     logger,
	}
}

// Configured 是否配置了 API Key
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Stream 发起流式补全请求, 返回上游事件流, 调用方负责关闭
// 主模型返回 404 或 503 时自动切换到备用模型重试一次
func (c *Client) Stream(ctx context.Context, messages []Message) (io.ReadCloser, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.post(ctx, c.cfg.Model, messages)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusServiceUnavailable {
		c.logger.Warn("主模型不可用, 切换备用模型",
			zap.String("model", c.cfg.Model),
			zap.String("fallback", c.cfg.FallbackModel),
			zap.Int("status", resp.StatusCode))
		drain(resp.Body)

		resp, err = c.post(ctx, c.cfg.FallbackModel, messages)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer drain(resp.Body)
		return nil, decodeError(resp)
	}

	return resp.Body, nil
}

func (c *Client) post(ctx context.Context, model string, messages []Message) (*http.Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      true,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")
	if c.cfg.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	}
	if c.cfg.SiteName != "" {
		req.Header.Set("X-Title", c.cfg.SiteName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 OpenRouter 失败: %w", err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("OpenRouter API error: %d", resp.StatusCode),
	}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Message = "Invalid OpenRouter API key. Check your OPENROUTER_API_KEY."
	case http.StatusTooManyRequests:
		apiErr.Message = "Rate limit exceeded. Please wait a moment and try again."
	}
	return apiErr
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

// ExtractDelta 从流式数据块中取出 choices[0].delta.content
// 无法解析的数据块返回 sse.ErrSkip, 带 error 字段的数据块视为上游报错
func ExtractDelta(data []byte) (string, error) {
	var chunk StreamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", sse.ErrSkip
	}
	if chunk.Error != nil && chunk.Error.Message != "" {
		return "", &APIError{Message: chunk.Error.Message}
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}
