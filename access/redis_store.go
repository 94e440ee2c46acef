package access

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPreviewStore implements PreviewStore on Redis, for deployments that
// already run one and want flags shared across instances without Postgres.
type RedisPreviewStore struct {
	client *redis.Client
}

// NewRedisPreviewStore wraps an existing client.
func NewRedisPreviewStore(client *redis.Client) *RedisPreviewStore {
	return &RedisPreviewStore{client: client}
}

func (s *RedisPreviewStore) Get(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get preview flag: %w", err)
	}
	return val == "1", nil
}

func (s *RedisPreviewStore) Set(ctx context.Context, key string, used bool) error {
	val := "0"
	if used {
		val = "1"
	}
	if err := s.client.Set(ctx, key, val, 0).Err(); err != nil {
		return fmt.Errorf("failed to set preview flag: %w", err)
	}
	return nil
}

func (s *RedisPreviewStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear preview flag: %w", err)
	}
	return nil
}
