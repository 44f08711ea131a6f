package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/lessonqa/internal/db"
)

// Get returns a cached answer or a budget counter.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpGet, Key: key, Err: err}
	}
	return data, nil
}

// SetWithTTL stores an answer that expires after ttl.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Key: key, Err: err}
	}
	return nil
}

// AddWithTTL increments a counter and gives it a ttl on first write.
// INCRBY and EXPIRE NX go out in one round trip; later adds keep the original expiry.
func (s *Store) AddWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) error {
	results := s.client.DoMulti(ctx,
		s.client.B().Incrby().Key(key).Increment(delta).Build(),
		s.client.B().Expire().Key(key).Seconds(int64(ttl/time.Second)).Nx().Build(),
	)
	if err := results[0].Error(); err != nil {
		return &db.Error{Op: db.OpIncrBy, Key: key, Err: err}
	}
	if err := results[1].Error(); err != nil {
		return &db.Error{Op: db.OpExpire, Key: key, Err: err}
	}
	return nil
}
