package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the shared TTL-capable key/value store backing dedup and rate
// limiting across all reporting processes. SetNX and IncrWithTTL must be
// atomic for the guarantees to hold under concurrency.
type Store interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	GetInt(ctx context.Context, key string) (int64, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	success, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SetNX failed: %w", err)
	}
	return success, nil
}

func (s *RedisStore) GetInt(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis GET failed: %w", err)
	}
	return value, nil
}

func (s *RedisStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	value, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis INCR failed: %w", err)
	}

	// First write owns the bucket TTL.
	if value == 1 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return value, fmt.Errorf("redis EXPIRE failed: %w", err)
		}
	}

	return value, nil
}
