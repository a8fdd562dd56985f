package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gist:"

// Redis shares cached values between processes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedis connects to the server at url and verifies it with a PING.
func NewRedis(ctx context.Context, url string, ttl time.Duration, log *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis: %w", err), client.Close())
	}

	return NewRedisFromClient(client, ttl, log), nil
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}

	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		r.log.WarnContext(ctx, "Failed to read redis cache",
			"key", key,
			"error", err)

		return "", false
	}

	return value, true
}

func (r *Redis) Set(ctx context.Context, key string, value string) {
	if key == "" || value == "" {
		return
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		r.log.WarnContext(ctx, "Failed to write redis cache",
			"key", key,
			"error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
