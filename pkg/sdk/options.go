package lessonqa

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/lessonqa/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg config.Config

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDatasetFile sets the path of the lesson records JSON file. Required.
func WithDatasetFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Dataset.Path = path
	})
}

// WithOpenAI selects an OpenAI-compatible chat completions backend.
// baseURL includes the /v1 suffix; apiKey may be empty for local servers.
func WithOpenAI(baseURL, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Backend = config.BackendOpenAI
		c.cfg.LLM.BaseURL = baseURL
		c.cfg.LLM.APIKey = apiKey
		c.cfg.LLM.Model = model
	})
}

// WithGemini selects the Google Gemini backend.
func WithGemini(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Backend = config.BackendGemini
		c.cfg.LLM.APIKey = apiKey
		c.cfg.LLM.Model = model
	})
}

// WithTemperature sets the sampling temperature (0..2). Default: 0.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Temperature = t
	})
}

// WithTimeout bounds a single LLM call. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.TimeoutSec = int(d.Round(time.Second) / time.Second)
	})
}

// WithInstruction prepends a fixed instruction to every prompt.
func WithInstruction(text string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Instruction = text
	})
}

// WithTokenBudget limits LLM token spend per day and month. Zero means unlimited.
// When reject is false an exhausted budget only logs a warning.
func WithTokenBudget(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Budget.DailyTokenLimit = daily
		c.cfg.LLM.Budget.MonthlyTokenLimit = monthly
		c.cfg.LLM.Budget.Action = "warn"
		if reject {
			c.cfg.LLM.Budget.Action = "reject"
		}
	})
}

// WithFuzzyThreshold sets the 1..100 score a field must exceed to match. Default: 70.
func WithFuzzyThreshold(threshold int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Retrieval.FuzzyThreshold = threshold
	})
}

// WithDateFallback lets a date question without a date hit try fuzzy matching.
func WithDateFallback() Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Retrieval.DateFallbackToFuzzy = true
	})
}

// WithFieldTriggers replaces the built-in field trigger table.
func WithFieldTriggers(triggers ...FieldTrigger) Option {
	return optionFunc(func(c *clientConfig) {
		rows := make([]config.FieldTriggerConfig, 0, len(triggers))
		for _, t := range triggers {
			rows = append(rows, config.FieldTriggerConfig{Field: t.Field, Phrases: t.Phrases})
		}
		c.cfg.Retrieval.FieldTriggers = rows
	})
}

// WithRedisCache caches answers (and persists budget counters) in Redis or Valkey.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Cache.Enabled = true
		c.cfg.Cache.Addrs = []string{addr}
		c.cfg.Cache.Password = password
		c.cfg.Cache.TTLSec = int(ttl / time.Second)
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
