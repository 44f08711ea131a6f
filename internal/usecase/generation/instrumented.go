package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedGenerator wraps a Generator with budget enforcement and logging.
// Transport metrics (requests, duration, tokens) are recorded by the backend adapters;
// this layer owns budget tracking and the request-scoped usage collector.
type InstrumentedGenerator struct {
	inner   domain.Generator
	backend string
	model   string
	budget  BudgetChecker
	logger  *zap.Logger
}

// NewInstrumentedGenerator wraps a generator with budget and observability. budget can be nil.
func NewInstrumentedGenerator(
	inner domain.Generator, backend, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedGenerator {
	return &InstrumentedGenerator{
		inner:   inner,
		backend: backend,
		model:   model,
		budget:  budget,
		logger:  logger,
	}
}

// Generate checks the budget, delegates to the inner generator and records usage.
func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	if g.budget != nil {
		if err := g.budget.Check(ctx); err != nil {
			g.logger.Warn("LLM budget exceeded",
				zap.String("backend", g.backend),
				zap.String("model", g.model),
				zap.Error(err),
			)
			return domain.Generation{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := g.inner.Generate(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		g.logger.Error("LLM request failed",
			zap.String("backend", g.backend),
			zap.String("model", g.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Generation{}, fmt.Errorf("generate: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)

	if g.budget != nil && result.TotalTokens > 0 {
		g.budget.Record(int64(result.TotalTokens))
		remaining := metrics.LLMBudgetTokensRemaining
		remaining.WithLabelValues(g.backend, "daily").Set(float64(g.budget.RemainingDaily()))
		remaining.WithLabelValues(g.backend, "monthly").Set(float64(g.budget.RemainingMonthly()))
	}

	g.logger.Debug("LLM request completed",
		zap.String("backend", g.backend),
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck delegates to the inner generator when it supports health checks.
func (g *InstrumentedGenerator) HealthCheck(ctx context.Context) error {
	hc, ok := g.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s health: %w", g.backend, err)
	}
	return nil
}
