package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "pitch_rl"
	DefaultWindow = time.Minute
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter caps generate calls per client within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, client string) (Decision, error)
	Close() error
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Limit    int
	Window   time.Duration
	Prefix   string
}

type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedis builds a fixed-window limiter on Redis. Keys are
// <prefix>:<client>:<window-start-unix> and expire with their window.
func NewRedis(opts Options) (Limiter, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", opts.Limit)
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &redisLimiter{
		client: client,
		limit:  opts.Limit,
		window: opts.Window,
		prefix: opts.Prefix,
		now:    time.Now,
	}, nil
}

func (l *redisLimiter) key(client string, start time.Time) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, client, start.Unix())
}

// Allow counts one hit for client. On a Redis error the call is allowed and
// the error is returned for logging.
func (l *redisLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	if l == nil || l.client == nil {
		return Decision{Allowed: true}, nil
	}
	start := l.now().Truncate(l.window)
	reset := start.Add(l.window)

	key := l.key(client, start)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{Allowed: true, ResetAt: reset}, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return Decision{Allowed: true, ResetAt: reset}, fmt.Errorf("ratelimit: expire %s: %w", key, err)
		}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(l.limit),
		Remaining: remaining,
		ResetAt:   reset,
	}, nil
}

func (l *redisLimiter) Close() error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Close()
}
