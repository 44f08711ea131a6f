package health

import "context"

// DatasetSizer reports how many lesson records are loaded.
type DatasetSizer interface {
	DatasetSize() int
}

// CachePinger checks answer cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker checks LLM backend availability.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}
