package answercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/db"
	"github.com/kailas-cloud/lessonqa/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "answer_cache:"

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedGenerator caches generated answers by prompt in a key-value store.
// Identical prompts within ttl reuse the stored text.
type CachedGenerator struct {
	inner      domain.Generator
	store      store
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. namespace separates entries of different
// backends and models, e.g. "openai:qwen2.5".
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Generator,
	s store,
	namespace string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGenerator {
	return &CachedGenerator{
		inner:      inner,
		store:      s,
		namespace:  namespace,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns a cached answer or calls the inner generator.
// Cache hit: token counts are zero. Only successful, non-empty generations are stored.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	key := c.cacheKey(prompt)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.Generation{Text: text}, nil
	}

	c.incCache("miss")

	res, err := c.inner.Generate(ctx, prompt)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("generate answer: %w", err)
	}

	if res.Text != "" {
		c.putToCache(ctx, key, res.Text)
	}
	return res, nil
}

// HealthCheck delegates to the inner generator when it supports health checks.
func (c *CachedGenerator) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (c *CachedGenerator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedGenerator) cacheKey(prompt string) string {
	h := sha256.Sum256([]byte(c.namespace + "\x00" + prompt))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached answer", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, text string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache answer", zap.String("key", key), zap.Error(err))
	}
}
