package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-maker/internal/shared/metrics"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores opaque values under string keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Enabled() bool
	Close() error
}

// Redis is a Cache backed by go-redis with a fixed TTL and key prefix.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis parses redisURL, connects and pings.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedis(client, ttl, prefix), nil
}

func newRedis(client *redis.Client, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{client: client, ttl: ttl, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

// Get returns ErrMiss when nothing is stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.IncCacheLookup("miss")
		return nil, ErrMiss
	}
	if err != nil {
		metrics.IncCacheLookup("error")
		return nil, fmt.Errorf("redis get: %w", err)
	}
	metrics.IncCacheLookup("hit")
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Enabled() bool { return true }

func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop is used when no cache is configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte) error   { return nil }
func (Noop) Ping(context.Context) error                  { return nil }
func (Noop) Enabled() bool                               { return false }
func (Noop) Close() error                                { return nil }

var (
	_ Cache = (*Redis)(nil)
	_ Cache = Noop{}
)
