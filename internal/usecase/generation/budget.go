package generation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/domain"
)

// BudgetAction defines behavior when the LLM token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request; the answer degrades to the raw context.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetWindow identifies one persisted counter: a backend's usage for a UTC day or month.
type BudgetWindow struct {
	Backend string
	Monthly bool
	Start   time.Time // midnight UTC of the day, or the first of the month
}

// BudgetStore is the persistence interface for budget counters.
// The store owns the key and retention scheme.
type BudgetStore interface {
	Add(ctx context.Context, w BudgetWindow, tokens int64) error
	Load(ctx context.Context, w BudgetWindow) (int64, error)
}

// BudgetTracker counts LLM tokens per UTC day and month.
// Check never leaves memory; Record writes behind to the store when one is attached,
// so several replicas converge on a shared counter after restart.
type BudgetTracker struct {
	mu           sync.Mutex
	dailyUsed    int64
	monthlyUsed  int64
	dailyLimit   int64
	monthlyLimit int64
	action       BudgetAction
	backend      string
	day          time.Time
	month        time.Time
	now          func() time.Time
	store        BudgetStore
	logger       *zap.Logger
}

// NewBudgetTracker creates a tracker. A zero limit means unlimited.
func NewBudgetTracker(
	backend string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	b := &BudgetTracker{
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		backend:      backend,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
	t := b.now()
	b.day, b.month = truncateToDay(t), truncateToMonth(t)
	return b
}

// WithStore attaches a persistence store and loads the current counters.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	t := b.now()

	if val, err := store.Load(ctx, b.dailyWindow(t)); err == nil {
		b.dailyUsed = val
	} else {
		b.logger.Warn("Failed to load daily LLM budget", zap.Error(err))
	}
	if val, err := store.Load(ctx, b.monthlyWindow(t)); err == nil {
		b.monthlyUsed = val
	} else {
		b.logger.Warn("Failed to load monthly LLM budget", zap.Error(err))
	}

	b.logger.Info("LLM budget loaded",
		zap.String("backend", b.backend),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
	return b
}

func (b *BudgetTracker) dailyWindow(t time.Time) BudgetWindow {
	return BudgetWindow{Backend: b.backend, Start: truncateToDay(t)}
}

func (b *BudgetTracker) monthlyWindow(t time.Time) BudgetWindow {
	return BudgetWindow{Backend: b.backend, Monthly: true, Start: truncateToMonth(t)}
}

// Check reports domain.ErrLLMBudgetExceeded when a limit is reached and the action is reject.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollover()

	dailyExceeded := b.dailyLimit > 0 && b.dailyUsed >= b.dailyLimit
	monthlyExceeded := b.monthlyLimit > 0 && b.monthlyUsed >= b.monthlyLimit
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if b.action == BudgetActionReject {
		return domain.ErrLLMBudgetExceeded
	}

	b.logger.Warn("LLM token budget exceeded",
		zap.String("backend", b.backend),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.dailyLimit),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.monthlyLimit),
	)
	return nil
}

// Record adds consumed tokens in memory, then persists them if a store is attached.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.rollover()
	b.dailyUsed += tokens
	b.monthlyUsed += tokens
	store := b.store
	t := b.now()
	b.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.Add(ctx, b.dailyWindow(t), tokens); err != nil {
		b.logger.Warn("Failed to persist daily LLM budget", zap.Error(err))
	}
	if err := store.Add(ctx, b.monthlyWindow(t), tokens); err != nil {
		b.logger.Warn("Failed to persist monthly LLM budget", zap.Error(err))
	}
}

// DailyLimit returns the daily token cap (0 if unlimited).
func (b *BudgetTracker) DailyLimit() int64 { return b.dailyLimit }

// MonthlyLimit returns the monthly token cap (0 if unlimited).
func (b *BudgetTracker) MonthlyLimit() int64 { return b.monthlyLimit }

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return remaining(b.dailyLimit, b.dailyUsed)
}

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return remaining(b.monthlyLimit, b.monthlyUsed)
}

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.dailyUsed
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.monthlyUsed
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// rollover zeroes counters when the UTC day or month changes. Caller holds mu.
func (b *BudgetTracker) rollover() {
	t := b.now()
	if day := truncateToDay(t); day.After(b.day) {
		b.dailyUsed = 0
		b.day = day
	}
	if month := truncateToMonth(t); month.After(b.month) {
		b.monthlyUsed = 0
		b.month = month
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
