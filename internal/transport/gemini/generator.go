package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/metrics"
)

const backendName = "gemini"

// Generator answers prompts through the Google Gemini API.
type Generator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *zap.Logger
}

// Config holds the Gemini backend settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	// Endpoint overrides the API base URL, e.g. a regional proxy.
	// Empty means the public Gemini endpoint.
	Endpoint string
	Logger   *zap.Logger
}

// NewGenerator creates a Gemini generator. Close releases the underlying client.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("gemini generator needs api key and model: %w", domain.ErrLLMNotConfigured)
	}

	// REST calls go through our own client; the key also stays in opts for the
	// gRPC cache client, which genai builds without the HTTP client.
	opts := []option.ClientOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Transport: &upstreamTransport{
			apiKey: cfg.APIKey,
			base:   http.DefaultTransport,
		}}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{client: client, model: model, name: cfg.Model, logger: logger}, nil
}

// Generate implements domain.Generator. Text parts of the first candidate are concatenated.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	status := &upstreamStatus{}
	ctx = context.WithValue(ctx, upstreamStatusKey{}, status)

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	metrics.LLMRequestDuration.WithLabelValues(backendName, g.name).Observe(time.Since(start).Seconds())

	if err != nil {
		classified, errType := classifyError(err, status.last())
		metrics.LLMRequestsTotal.WithLabelValues(backendName, g.name, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(backendName, g.name, errType).Inc()
		return domain.Generation{}, classified
	}

	text := candidateText(resp)
	if text == "" {
		metrics.LLMRequestsTotal.WithLabelValues(backendName, g.name, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(backendName, g.name, "empty_response").Inc()
		return domain.Generation{}, fmt.Errorf("gemini response without text: %w", domain.ErrLLMEmptyResponse)
	}

	res := domain.Generation{Text: text}
	if u := resp.UsageMetadata; u != nil {
		res.PromptTokens = int(u.PromptTokenCount)
		res.CompletionTokens = int(u.CandidatesTokenCount)
		res.TotalTokens = int(u.TotalTokenCount)
		metrics.LLMTokensTotal.WithLabelValues(backendName, g.name, "prompt").Add(float64(res.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(backendName, g.name, "completion").Add(float64(res.CompletionTokens))
	}
	metrics.LLMRequestsTotal.WithLabelValues(backendName, g.name, "success").Inc()

	return res, nil
}

// Close releases the Gemini client.
func (g *Generator) Close() error {
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("close gemini client: %w", err)
	}
	return nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// classifyError maps genai and transport errors onto the domain sentinels.
// lastStatus is the last HTTP status the backend answered with, 0 if none.
func classifyError(err error, lastStatus int) (error, string) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if unavailableStatus(apiErr.Code) {
			return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrLLMUnavailable), "unavailable"
		}
		return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrLLMProtocol), "api_error"
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		// The client retries 503 until the deadline and then reports only the deadline.
		if unavailableStatus(lastStatus) {
			return fmt.Errorf("gemini API kept answering %d: %w: %w", lastStatus, domain.ErrLLMUnavailable, err), "unavailable"
		}
		return fmt.Errorf("gemini generate: %w: %w", domain.ErrLLMTimeout, err), "timeout"
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("gemini blocked: %w: %w", domain.ErrLLMEmptyResponse, err), "blocked"
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) {
		return fmt.Errorf("gemini generate: %w: %w", domain.ErrLLMUnreachable, err), "unreachable"
	}

	return fmt.Errorf("gemini generate: %w", err), "unknown"
}

func unavailableStatus(code int) bool {
	return code == http.StatusNotFound || code == http.StatusServiceUnavailable
}

type upstreamStatusKey struct{}

// upstreamStatus holds the last HTTP status seen during one Generate call.
type upstreamStatus struct {
	code atomic.Int32
}

func (s *upstreamStatus) last() int { return int(s.code.Load()) }

// upstreamTransport authenticates REST calls with the API key header and
// records each response status on the calling Generate's upstreamStatus.
type upstreamTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *upstreamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("x-goog-api-key", t.apiKey)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err //nolint:wrapcheck // the client library inspects transport errors
	}
	if s, ok := req.Context().Value(upstreamStatusKey{}).(*upstreamStatus); ok {
		s.code.Store(int32(resp.StatusCode))
	}
	return resp, nil
}
