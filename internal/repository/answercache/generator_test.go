package answercache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/domain"
)

func TestGenerate_CacheMiss(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "Buổi học về biến.", PromptTokens: 90, CompletionTokens: 10, TotalTokens: 100}}
	cg, ms := newTestCachedGenerator(t, inner)

	var setKey string
	var setValue []byte
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setValue, setTTL = key, value, ttl
		return nil
	}

	res, err := cg.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalTokens != 100 {
		t.Errorf("expected TotalTokens=100 on miss, got %d", res.TotalTokens)
	}
	if !strings.HasPrefix(setKey, "lessonqa:answer_cache:") {
		t.Errorf("unexpected cache key %q", setKey)
	}
	if string(setValue) != "Buổi học về biến." {
		t.Errorf("unexpected cached value %q", setValue)
	}
	if setTTL != time.Hour {
		t.Errorf("expected ttl 1h, got %v", setTTL)
	}
}

func TestGenerate_CacheHit(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "fresh"}}
	cg, ms := newTestCachedGenerator(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("cached answer"), nil
	}

	res, err := cg.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "cached answer" {
		t.Errorf("expected cached text, got %q", res.Text)
	}
	if res.TotalTokens != 0 {
		t.Errorf("expected TotalTokens=0 on cache hit, got %d", res.TotalTokens)
	}
	if inner.calls != 0 {
		t.Errorf("expected no inner calls, got %d", inner.calls)
	}
}

func TestGenerate_InnerErrorNotCached(t *testing.T) {
	inner := &mockGenerator{err: domain.ErrLLMTimeout}
	cg, ms := newTestCachedGenerator(t, inner)

	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Error("failed generation must not be cached")
		return nil
	}

	_, err := cg.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrLLMTimeout) {
		t.Fatalf("expected ErrLLMTimeout, got %v", err)
	}
}

func TestGenerate_EmptyTextNotCached(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{}}
	cg, ms := newTestCachedGenerator(t, inner)

	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Error("empty generation must not be cached")
		return nil
	}

	if _, err := cg.Generate(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerate_StoreErrorsAreNotFatal(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "ok"}}
	cg, ms := newTestCachedGenerator(t, inner)

	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("connection reset") }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("connection reset") }

	res, err := cg.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "ok" || inner.calls != 1 {
		t.Errorf("expected inner result, got %q after %d calls", res.Text, inner.calls)
	}
}

func TestCacheKey_NamespaceSeparatesModels(t *testing.T) {
	a := New(&mockGenerator{}, &mockKVStore{}, "openai:a", time.Hour, nil, zap.NewNop())
	b := New(&mockGenerator{}, &mockKVStore{}, "openai:b", time.Hour, nil, zap.NewNop())

	if a.cacheKey("p") == b.cacheKey("p") {
		t.Error("expected different keys for different namespaces")
	}
	if a.cacheKey("p") != a.cacheKey("p") {
		t.Error("expected stable keys")
	}
}

func TestGenerate_CacheMetrics(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_answer_cache_total"}, []string{"result"})
	inner := &mockGenerator{result: domain.Generation{Text: "ok"}}
	ms := &mockKVStore{}
	cg := New(inner, ms, "ns", time.Minute, counter, zap.NewNop())

	_, _ = cg.Generate(context.Background(), "p")
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("ok"), nil }
	_, _ = cg.Generate(context.Background(), "p")
	_, _ = cg.Generate(context.Background(), "p")

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
}
