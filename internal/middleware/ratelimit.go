package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialautomator/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when Redis is unavailable.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

// Limiter counts requests per resource and caller in fixed Redis windows.
type Limiter struct {
	rdb *redis.Client
	env string
}

// NewLimiter returns a limiter. Limiting is disabled in the test, development
// and stress environments.
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	return &Limiter{rdb: rdb, env: env}
}

func (l *Limiter) disabled() bool {
	switch l.env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// Allow reports whether id may make another request against resource.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.disabled() {
		return true, nil
	}
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		observability.RedisErrorRate.WithLabelValues("ratelimit").Inc()
		return false, err
	}
	// A counter without a TTL never resets, so any window missing one gets it here.
	if ttl.Val() < 0 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			observability.RedisErrorRate.WithLabelValues("ratelimit").Inc()
			return false, err
		}
	}
	return incr.Val() <= int64(limit), nil
}

// Handler enforces limit requests per window, keyed by user id when known and by
// remote IP otherwise. name overrides the request path as the resource.
func (l *Limiter) Handler(limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid, ok := c.Locals(LocalUserID).(string); ok && uid != "" {
			id = "user:" + uid
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := l.Allow(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				observability.GlobalLogger.WarnContext(c.UserContext(), "rate limit fail-closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
