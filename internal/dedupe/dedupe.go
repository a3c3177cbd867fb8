// Package dedupe suppresses re-analysis of records already seen within a
// TTL window, keyed by canonical fingerprint in Redis.
package dedupe

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenKeyFormat = "analysis:seen:%s"

// Store tracks seen record fingerprints in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore connects to Redis and verifies the connection.
func NewStore(addr, password string, db int, ttl time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Connected to Redis: %s", addr)

	return &Store{rdb: rdb, ttl: ttl}, nil
}

// MarkIfNew records the fingerprint and reports whether it was unseen.
// False means the record was already analysed within the TTL window.
func (s *Store) MarkIfNew(ctx context.Context, fingerprint string) (bool, error) {
	key := fmt.Sprintf(seenKeyFormat, fingerprint)

	fresh, err := s.rdb.SetNX(ctx, key, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark fingerprint: %w", err)
	}

	return fresh, nil
}

// Forget drops a fingerprint so the record can be resubmitted after a
// retryable failure.
func (s *Store) Forget(ctx context.Context, fingerprint string) error {
	key := fmt.Sprintf(seenKeyFormat, fingerprint)

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to forget fingerprint: %w", err)
	}

	return nil
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
