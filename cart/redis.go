package cart

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisBackend wraps a Redis client as a cart backend. The record is kept
// under StorageKey with no TTL; this is durable storage, not a cache.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// RedisBackend stores the serialized cart in a single Redis key.
type RedisBackend struct {
	client *redis.Client
}

func (r *RedisBackend) Get(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, StorageKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisBackend) Set(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, StorageKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, StorageKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
