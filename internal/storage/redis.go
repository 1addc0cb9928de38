package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each key as one Redis string value. Keys are prefixed
// so several deployments can share one Redis database.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q from redis: %w", key, err)
	}
	return value, nil
}

func (b *RedisBackend) Write(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q to redis: %w", key, err)
	}
	return nil
}
