package lessonqa

import (
	"context"
	"sort"

	healthuc "github.com/kailas-cloud/lessonqa/internal/usecase/health"
)

// Aggregate health statuses.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// HealthStatus is the state of the dataset, the answer cache and the LLM backend.
// Checks maps each component to "ok" or "error"; the cache check is absent when
// no cache is configured.
type HealthStatus struct {
	Status      string
	Checks      map[string]string
	DatasetSize int
}

// CanAnswer reports whether questions get an answer. A degraded client still
// answers, falling back to the matched records when the LLM is down.
func (h HealthStatus) CanAnswer() bool {
	return h.Status != HealthError
}

// Failing lists the components whose check failed, sorted by name.
func (h HealthStatus) Failing() []string {
	var out []string
	for name, result := range h.Checks {
		if result != string(healthuc.CheckOK) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Health runs every component check once.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}
	return HealthStatus{
		Status:      string(report.Status),
		Checks:      checks,
		DatasetSize: report.DatasetSize,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
