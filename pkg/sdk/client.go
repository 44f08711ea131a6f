package lessonqa

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/app"
	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/intent"
)

// Internal interfaces for substitution in tests.
type answerUseCase interface {
	Answer(ctx context.Context, question string) string
	AnswerWithoutAI(ctx context.Context, question string) string
	Context(ctx context.Context, question string) (string, bool)
}

type retrievalUseCase interface {
	Classify(question string) intent.Intent
	Fields() []string
	DatasetSize() int
}

// Client is the lessonqa SDK entry point.
type Client struct {
	answerSvc    answerUseCase
	retrievalSvc retrievalUseCase
	healthSvc    healthUseCase
	obs          *observer
	closeFn      func()
}

// New loads the dataset and connects the LLM backend and optional cache.
// The provided context is used for the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	cfg := cc.cfg
	cfg.ApplyDefaults()
	if err := cfg.ValidatePipeline(); err != nil {
		return nil, fmt.Errorf("lessonqa: %w", err)
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	// Internal services log through zap; SDK callers get slog via the observer.
	a, err := app.New(ctx, &cfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("lessonqa: %w", err)
	}

	return &Client{
		answerSvc:    a.Answers,
		retrievalSvc: a.Retrieval,
		healthSvc:    a.Health,
		obs:          obs,
		closeFn:      a.Close,
	}, nil
}

// Close releases the cache connection and LLM clients.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ask answers a question with the LLM backend. LLM failures never surface as errors:
// they become a Vietnamese explanation or, when the backend is gone, the matched records.
func (c *Client) Ask(ctx context.Context, question string) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err, "llm", ans.LLMCalled, "tokens", ans.Tokens) }()

	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	text := c.answerSvc.Answer(ctx, question)
	return Answer{Text: text, Tokens: usage.TotalTokens, LLMCalled: usage.Used}, nil
}

// AskWithoutAI answers from the matched records only.
func (c *Client) AskWithoutAI(ctx context.Context, question string) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask_without_ai", start, err) }()

	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}
	return Answer{Text: c.answerSvc.AnswerWithoutAI(ctx, question)}, nil
}

// Context returns the retrieval context a prompt would carry and whether any record matched.
func (c *Client) Context(question string) (string, bool) {
	start := time.Now()
	text, matched := c.answerSvc.Context(context.Background(), question)
	c.obs.observe("context", start, nil, "matched", matched)
	return text, matched
}

// Intent classifies a question without matching records.
func (c *Client) Intent(question string) Intent {
	in := c.retrievalSvc.Classify(question)
	fields := make([]string, 0, len(in.Fields()))
	for _, f := range in.Fields() {
		fields = append(fields, string(f))
	}
	return Intent{Date: in.Date(), Fields: fields}
}

// Fields returns the dataset field names in first-seen order.
func (c *Client) Fields() []string {
	return c.retrievalSvc.Fields()
}

// DatasetSize returns the number of loaded lesson records.
func (c *Client) DatasetSize() int {
	return c.retrievalSvc.DatasetSize()
}

