package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client used by Redis.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Redis stores entries in Redis so several server instances share one cache.
type Redis struct {
	client RedisClient
	prefix string
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Address  string
	Username string
	Password string
	DB       int
}

// NewRedisClient connects to Redis.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// NewRedis wraps a client. Keys are namespaced with prefix.
func NewRedis(client RedisClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "ramadan-live:"
	}
	return &Redis{client: client, prefix: prefix}
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

// Save implements Store. Redis expires the key after ttl.
func (r *Redis) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
