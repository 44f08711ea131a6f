package db

import (
	"context"
	"time"
)

// Store is the shared Redis/Valkey connection. The answer cache reads and
// writes whole entries; the token budget keeps integer counters.
type Store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	AddWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}
