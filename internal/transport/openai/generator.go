package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/metrics"
)

// Generator answers prompts through an OpenAI-compatible chat completion API (OpenAI, vLLM, Nebius).
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	backend     string
	logger      *zap.Logger
}

// Config holds the chat completion backend settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Backend     string
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generator.
// BaseURL includes the API version prefix, e.g. https://host/v1.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, fmt.Errorf("openai generator needs base url and model: %w", domain.ErrLLMNotConfigured)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	backend := cfg.Backend
	if backend == "" {
		backend = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		backend:     backend,
		logger:      logger,
	}, nil
}

// Generate implements domain.Generator with a single user message. No retries.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	metrics.LLMRequestDuration.WithLabelValues(g.backend, g.model).Observe(duration.Seconds())

	if err != nil {
		classified, errType := classifyError(err)
		metrics.LLMRequestsTotal.WithLabelValues(g.backend, g.model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(g.backend, g.model, errType).Inc()
		return domain.Generation{}, classified
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(g.backend, g.model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(g.backend, g.model, "empty_response").Inc()
		return domain.Generation{}, fmt.Errorf("chat completion without choices: %w", domain.ErrLLMEmptyResponse)
	}

	metrics.LLMRequestsTotal.WithLabelValues(g.backend, g.model, "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(g.backend, g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(g.backend, g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return domain.Generation{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		classified, _ := classifyError(err)
		return fmt.Errorf("list models: %w", classified)
	}
	return nil
}

// classifyError maps a go-openai or transport error onto the domain sentinels.
// The second value is the metrics error_type label.
func classifyError(err error) (error, string) {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("chat completion: %w: %w", domain.ErrLLMTimeout, err), "timeout"
	}

	if status, detail, ok := apiStatus(err); ok {
		if status == http.StatusNotFound || status == http.StatusServiceUnavailable {
			return fmt.Errorf("chat completion API error %d: %s: %w", status, detail, domain.ErrLLMUnavailable), "unavailable"
		}
		return fmt.Errorf("chat completion API error %d: %s: %w", status, detail, domain.ErrLLMProtocol), "api_error"
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) {
		return fmt.Errorf("chat completion: %w: %w", domain.ErrLLMUnreachable, err), "unreachable"
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("chat completion response: %w: %w", domain.ErrLLMInvalidResponse, err), "invalid_response"
	}

	return fmt.Errorf("chat completion: %w", err), "unknown"
}

// apiStatus extracts the HTTP status and a readable detail from go-openai error types.
func apiStatus(err error) (int, string, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return reqErr.HTTPStatusCode, detail, true
		}
		return reqErr.HTTPStatusCode, string(reqErr.Body), true
	}
	return 0, "", false
}

// extractDetail extracts the "detail" field from a JSON error body (vLLM/Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
