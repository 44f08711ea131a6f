package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/lessonqa/internal/db"
)

var _ db.Store = (*Store)(nil)

// clientName shows up in CLIENT LIST on the shared server.
const clientName = "lessonqa"

// Config is the cache section's connection settings.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store backs the answer cache and the budget counters with Redis or Valkey.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the configured addresses. Client-side caching stays off:
// answers are read once per prompt and counters change on every request.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("cache addrs are required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect cache %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping reports whether the cache answers. Health checks call it per request.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping cache: %w", err)
	}
	return nil
}

// WaitForReady blocks until the cache answers a ping or timeout passes.
// Startup treats a cache that never comes up as fatal.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("cache not ready after %s: %w", timeout, ctx.Err())
		case <-ticker.C:
			if s.Ping(ctx) == nil {
				return nil
			}
		}
	}
}

// Close drops every connection.
func (s *Store) Close() {
	s.client.Close()
}
