package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/lessonqa/internal/domain/usage"
)

// Service handles LLM token usage reporting.
type Service struct {
	br      BudgetReader
	backend string
	now     func() time.Time
}

// New creates a Service. br can be nil when no generator is wired; reports are then empty.
func New(br BudgetReader, backend string) *Service {
	return &Service{br: br, backend: backend, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given UTC period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now()
	var start, end time.Time
	var limit, used int64
	remaining := int64(-1)

	switch period {
	case domusage.PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			limit, used, remaining = s.br.MonthlyLimit(), s.br.MonthlyUsed(), s.br.RemainingMonthly()
		}
	default:
		period = domusage.PeriodDay
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		if s.br != nil {
			limit, used, remaining = s.br.DailyLimit(), s.br.DailyUsed(), s.br.RemainingDaily()
		}
	}

	b := domusage.NewBudget(limit, remaining, end.UnixMilli())
	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), s.backend, used, b)
}
