// internal/service/admission/redis_window.go
package admission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWindowStore backs the sliding window with a Redis sorted set per
// tenant, scored by request timestamp in milliseconds.
type RedisWindowStore struct {
	client *redis.Client
}

func NewRedisWindowStore(client *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{client: client}
}

func (s *RedisWindowStore) RemoveOlderThan(ctx context.Context, key string, cutoff time.Time) error {
	max := strconv.FormatInt(cutoff.UnixMilli(), 10)
	if err := s.client.ZRemRangeByScore(ctx, key, "0", max).Err(); err != nil {
		return fmt.Errorf("failed to prune rate window: %w", err)
	}
	return nil
}

func (s *RedisWindowStore) Count(ctx context.Context, key string) (int64, error) {
	count, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count rate window: %w", err)
	}
	return count, nil
}

func (s *RedisWindowStore) AddEntry(ctx context.Context, key string, at time.Time, member string) error {
	z := redis.Z{Score: float64(at.UnixMilli()), Member: member}
	if err := s.client.ZAdd(ctx, key, z).Err(); err != nil {
		return fmt.Errorf("failed to append rate window entry: %w", err)
	}
	return nil
}

func (s *RedisWindowStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("failed to expire rate window key: %w", err)
	}
	return nil
}

func (s *RedisWindowStore) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}
