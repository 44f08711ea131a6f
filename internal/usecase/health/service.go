package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; questions are still answered.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer questions.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status      Status
	Checks      map[string]CheckResult
	DatasetSize int
}

// Service coordinates health checks.
type Service struct {
	dataset DatasetSizer
	cache   CachePinger
	llm     LLMChecker
}

// New creates a Service. cache and llm can be nil.
func New(dataset DatasetSizer, cache CachePinger, llm LLMChecker) *Service {
	return &Service{dataset: dataset, cache: cache, llm: llm}
}

// Check runs health checks against all components.
// An empty dataset makes the service unhealthy; a failing cache or LLM only degrades it,
// since answers still fall back to the raw context.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	size := s.dataset.DatasetSize()
	checks["dataset"] = result(size > 0)

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx) == nil)
	}
	if s.llm != nil {
		checks["llm"] = result(s.llm.HealthCheck(ctx) == nil)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks["dataset"] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, DatasetSize: size}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
