package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/credentials"
	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/metrics"
)

// Model is a chat-completion client for OpenAI-compatible APIs.
// Every usecase that talks to the language model goes through Invoke.
type Model struct {
	baseURL     string
	creds       credentials.Provider
	httpClient  *http.Client
	model       string
	temperature float32
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// ModelConfig holds the chat model settings.
type ModelConfig struct {
	BaseURL     string
	Credentials credentials.Provider
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Provider    string
	Logger      *zap.Logger
}

// NewModel creates an OpenAI-compatible chat model client.
// A fresh client is built per request so key rotation takes effect.
func NewModel(cfg *ModelConfig) *Model {
	return &Model{
		baseURL:     cfg.BaseURL,
		creds:       cfg.Credentials,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

func (m *Model) client() *openai.Client {
	clientCfg := openai.DefaultConfig(m.creds.Key())
	if m.baseURL != "" {
		clientCfg.BaseURL = m.baseURL
	}
	clientCfg.HTTPClient = m.httpClient
	return openai.NewClientWithConfig(clientCfg)
}

// Invoke sends a single-turn prompt and returns the model's text reply.
func (m *Model) Invoke(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: m.temperature,
	}
	if m.maxTokens > 0 {
		req.MaxTokens = m.maxTokens
	}

	start := time.Now()

	resp, err := m.client().CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(m.provider, m.model, "error").Inc()
		metrics.ModelErrorsTotal.WithLabelValues(m.provider, m.model, "api_error").Inc()
		return "", parseAPIError(err, "model", domain.ErrModelProvider)
	}

	if len(resp.Choices) == 0 {
		metrics.ModelRequestsTotal.WithLabelValues(m.provider, m.model, "error").Inc()
		metrics.ModelErrorsTotal.WithLabelValues(m.provider, m.model, "empty_response").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrModelProvider)
	}

	metrics.ModelRequestsTotal.WithLabelValues(m.provider, m.model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(m.provider, m.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.ModelTokensTotal.WithLabelValues(m.provider, m.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ModelTokensTotal.WithLabelValues(m.provider, m.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (m *Model) HealthCheck(ctx context.Context) error {
	if _, err := m.client().ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
