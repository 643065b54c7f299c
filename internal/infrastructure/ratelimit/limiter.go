package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is an optional Redis-backed fixed-window request throttle. With
// no Redis address configured it allows everything, and Redis errors fail
// open so the analytics endpoint never goes down with the cache host.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

type Config struct {
	Addr string
	// PerMinute caps requests per client key per minute; zero disables
	// the limiter even when Redis is reachable.
	PerMinute int
}

func NewLimiter(cfg Config) (*Limiter, error) {
	if strings.TrimSpace(cfg.Addr) == "" || cfg.PerMinute <= 0 {
		return &Limiter{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Limiter{
		client: client,
		limit:  cfg.PerMinute,
		window: time.Minute,
		prefix: "arclens:rl:",
	}, nil
}

// Allow reports whether the keyed client may proceed within the current
// window.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	bucket := fmt.Sprintf("%s%s:%d", l.prefix, key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		_ = l.client.Expire(ctx, bucket, l.window).Err()
	}
	return count <= int64(l.limit)
}

func (l *Limiter) Close() error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Close()
}
