package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var redisOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "confcentral_announcement_cache_duration_ms",
	Help:    "Latency of announcement cache operations against Redis in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
}, []string{"op"})

// DefaultKeyPrefix namespaces announcement keys in a shared Redis.
const DefaultKeyPrefix = "confcentral:announcement:"

// Redis keeps announcements in Redis so every instance serves the same text.
type Redis struct {
	client *redis.Client
	prefix string
}

type RedisOption func(*Redis)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	defer observe("get", time.Now())
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	defer observe("set", time.Now())
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	defer observe("delete", time.Now())
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func observe(op string, start time.Time) {
	redisOpDuration.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
