package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDataset struct {
	size int
}

func (m *mockDataset) DatasetSize() int { return m.size }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockLLMChecker struct {
	err error
}

func (m *mockLLMChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDataset{size: 12}, &mockPinger{}, &mockLLMChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"dataset", "cache", "llm"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
	if r.DatasetSize != 12 {
		t.Errorf("expected dataset size 12, got %d", r.DatasetSize)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockDataset{size: 1}, &mockPinger{err: errors.New("conn refused")}, &mockLLMChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["llm"] != CheckOK {
		t.Errorf("expected llm %q, got %q", CheckOK, r.Checks["llm"])
	}
}

func TestCheck_LLMError(t *testing.T) {
	svc := New(&mockDataset{size: 1}, nil, &mockLLMChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["llm"] != CheckError {
		t.Errorf("expected llm %q, got %q", CheckError, r.Checks["llm"])
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when no cache is configured")
	}
}

func TestCheck_EmptyDataset(t *testing.T) {
	svc := New(&mockDataset{}, &mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["dataset"] != CheckError {
		t.Errorf("expected dataset %q, got %q", CheckError, r.Checks["dataset"])
	}
}

func TestCheck_OnlyDataset(t *testing.T) {
	svc := New(&mockDataset{size: 3}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(r.Checks))
	}
}
