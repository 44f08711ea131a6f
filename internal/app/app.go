// Package app assembles the lessonqa services from configuration.
// It is the shared composition root of the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/config"
	"github.com/kailas-cloud/lessonqa/internal/db"
	dbRedis "github.com/kailas-cloud/lessonqa/internal/db/redis"
	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
	"github.com/kailas-cloud/lessonqa/internal/metrics"
	"github.com/kailas-cloud/lessonqa/internal/nlp"
	"github.com/kailas-cloud/lessonqa/internal/repository/answercache"
	budgetrepo "github.com/kailas-cloud/lessonqa/internal/repository/budget"
	geminiGen "github.com/kailas-cloud/lessonqa/internal/transport/gemini"
	openaiGen "github.com/kailas-cloud/lessonqa/internal/transport/openai"
	answeruc "github.com/kailas-cloud/lessonqa/internal/usecase/answer"
	generationuc "github.com/kailas-cloud/lessonqa/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/lessonqa/internal/usecase/health"
	"github.com/kailas-cloud/lessonqa/internal/usecase/retrieval"
	usageuc "github.com/kailas-cloud/lessonqa/internal/usecase/usage"
)

// App holds the wired services. Close releases the store and LLM clients.
type App struct {
	Dataset   lesson.Dataset
	Retrieval *retrieval.Service
	Answers   *answeruc.Service
	Health    *healthuc.Service
	Usage     *usageuc.Service

	closers []func()
}

// New loads the dataset and wires retrieval, generation and health services.
// A missing or malformed dataset and an unreachable cache are fatal.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	ds, retrievalSvc, err := NewRetrieval(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{Dataset: ds, Retrieval: retrievalSvc}

	var store db.Store
	if cfg.Cache.Enabled {
		store, err = openStore(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	base, err := buildBackend(ctx, &cfg.LLM, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := base.(interface{ Close() error }); ok {
		a.closers = append(a.closers, func() { _ = c.Close() })
	}

	budget := buildBudget(ctx, &cfg.LLM, store, logger)
	generator, checker := buildGenerator(base, &cfg.LLM, store, time.Duration(cfg.Cache.TTLSec)*time.Second, budget, logger)
	logger.Info("Generator created",
		zap.String("backend", cfg.LLM.Backend),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("cache", store != nil),
		zap.Int64("daily_token_limit", budget.DailyLimit()),
		zap.Int64("monthly_token_limit", budget.MonthlyLimit()),
	)

	a.Answers = answeruc.New(retrievalSvc, generator, time.Duration(cfg.LLM.TimeoutSec)*time.Second, logger)

	// Pass nil interfaces, not typed nil pointers.
	var cache healthuc.CachePinger
	if store != nil {
		cache = store
	}
	a.Health = healthuc.New(retrievalSvc, cache, checker)
	a.Usage = usageuc.New(budget, cfg.LLM.Backend)

	return a, nil
}

// NewRetrieval loads the dataset and builds the retrieval pipeline only. No LLM or cache is touched.
func NewRetrieval(cfg *config.Config, logger *zap.Logger) (lesson.Dataset, *retrieval.Service, error) {
	ds, err := lesson.LoadFile(cfg.Dataset.Path)
	if err != nil {
		return lesson.Dataset{}, nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("Dataset loaded",
		zap.String("path", cfg.Dataset.Path),
		zap.Int("records", ds.Len()),
		zap.Strings("fields", ds.Fields()),
	)

	svc, err := retrieval.New(
		ds, nlp.New(nil), cfg.RetrievalSettings(), Triggers(cfg.Retrieval.FieldTriggers),
		metrics.RetrievalMatchesTotal,
	)
	if err != nil {
		return lesson.Dataset{}, nil, fmt.Errorf("build retrieval: %w", err)
	}
	return ds, svc, nil
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Triggers converts configured trigger rows; an empty table selects the built-in one.
func Triggers(rows []config.FieldTriggerConfig) []retrieval.FieldTriggers {
	if len(rows) == 0 {
		return retrieval.DefaultTriggers()
	}
	out := make([]retrieval.FieldTriggers, len(rows))
	for i, r := range rows {
		out[i] = retrieval.FieldTriggers{Field: lesson.Field(r.Field), Phrases: r.Phrases}
	}
	return out
}

func openStore(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	return store, nil
}

// buildBackend creates the transport-level generator for the configured backend.
func buildBackend(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (domain.Generator, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		g, err := openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
			Backend:     config.BackendOpenAI,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai generator: %w", err)
		}
		return g, nil
	case config.BackendGemini:
		g, err := geminiGen.NewGenerator(ctx, &geminiGen.Config{
			APIKey:      cfg.APIKey,
			Endpoint:    cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini generator: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("llm backend %q: %w", cfg.Backend, domain.ErrLLMNotConfigured)
	}
}

// buildBudget always returns a tracker so usage is counted; zero limits never reject.
func buildBudget(
	ctx context.Context, cfg *config.LLMConfig, store db.Store, logger *zap.Logger,
) *generationuc.BudgetTracker {
	action := generationuc.BudgetActionWarn
	if cfg.Budget.Action == string(generationuc.BudgetActionReject) {
		action = generationuc.BudgetActionReject
	}
	budget := generationuc.NewBudgetTracker(
		cfg.Backend, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
	)
	if store != nil {
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.Options{
			Prefix:     cfg.Budget.KeyPrefix,
			DailyTTL:   time.Duration(cfg.Budget.DailyTTLHours) * time.Hour,
			MonthlyTTL: time.Duration(cfg.Budget.MonthlyTTLDays) * 24 * time.Hour,
		}))
	}
	return budget
}

// buildGenerator assembles the decorator chain: backend -> cached -> instrumented -> instruction.
// The second value is the chain link that answers health checks.
func buildGenerator(
	base domain.Generator,
	cfg *config.LLMConfig,
	store db.Store,
	cacheTTL time.Duration,
	budget *generationuc.BudgetTracker,
	logger *zap.Logger,
) (domain.Generator, healthuc.LLMChecker) {
	generator := base
	if store != nil {
		generator = answercache.New(
			base, store, cfg.Backend+":"+cfg.Model, cacheTTL, metrics.AnswerCacheTotal, logger,
		)
	}

	instrumented := generationuc.NewInstrumentedGenerator(generator, cfg.Backend, cfg.Model, budget, logger)

	// Instruction prefix is outermost, so cache keys include it.
	if cfg.Instruction != "" {
		return domain.NewInstructionGenerator(instrumented, cfg.Instruction), instrumented
	}
	return instrumented, instrumented
}
