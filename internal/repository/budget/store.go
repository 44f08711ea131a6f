package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/lessonqa/internal/db"
	generationuc "github.com/kailas-cloud/lessonqa/internal/usecase/generation"
)

// counters is the slice of the KV store the budget needs.
type counters interface {
	Get(ctx context.Context, key string) ([]byte, error)
	AddWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) error
}

// Options is the key and retention scheme, taken from llm.budget.
type Options struct {
	Prefix     string        // namespace, e.g. "lessonqa:budget:"
	DailyTTL   time.Duration // retention of a day counter after its first write
	MonthlyTTL time.Duration // retention of a month counter after its first write
}

// Store persists token usage windows as integer counters.
// Keys look like {prefix}{backend}:daily:2024-07-16 and {prefix}{backend}:monthly:2024-07.
type Store struct {
	kv   counters
	opts Options
}

var _ generationuc.BudgetStore = (*Store)(nil)

// New creates a budget store.
func New(kv counters, opts Options) *Store {
	return &Store{kv: kv, opts: opts}
}

// Key returns the counter key for a window.
func (s *Store) Key(w generationuc.BudgetWindow) string {
	if w.Monthly {
		return fmt.Sprintf("%s%s:monthly:%s", s.opts.Prefix, w.Backend, w.Start.Format("2006-01"))
	}
	return fmt.Sprintf("%s%s:daily:%s", s.opts.Prefix, w.Backend, w.Start.Format("2006-01-02"))
}

// Add increments the window's counter. The retention is set on the first
// write only, so later increments never extend it.
func (s *Store) Add(ctx context.Context, w generationuc.BudgetWindow, tokens int64) error {
	ttl := s.opts.DailyTTL
	if w.Monthly {
		ttl = s.opts.MonthlyTTL
	}
	if err := s.kv.AddWithTTL(ctx, s.Key(w), tokens, ttl); err != nil {
		return fmt.Errorf("add %s usage: %w", w.Backend, err)
	}
	return nil
}

// Load returns the window's counter, or 0 when nothing was recorded yet.
func (s *Store) Load(ctx context.Context, w generationuc.BudgetWindow) (int64, error) {
	key := s.Key(w)
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load usage from %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse usage at %s: %w", key, err)
	}
	return val, nil
}
