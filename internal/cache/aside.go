package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"socialautomator/internal/observability"

	"github.com/redis/go-redis/v9"
)

// AnalyticsOverviewKey caches the analytics overview.
const AnalyticsOverviewKey = "analytics:overview"

// Cache wraps an optional Redis client. A nil client disables caching.
type Cache struct {
	client *redis.Client
}

// New returns a Cache over client, which may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Aside loads key into dest, calling fill and storing its result on a miss.
// Redis failures fall through to fill.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if !c.Enabled() {
		return fill()
	}

	family := keyFamily(key)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			observability.CacheLookups.WithLabelValues(family, "hit").Inc()
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		observability.GlobalLogger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	observability.CacheLookups.WithLabelValues(family, "miss").Inc()

	if err := fill(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate removes key. Failures are logged only.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "cache invalidate failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func keyFamily(key string) string {
	family, _, _ := strings.Cut(key, ":")
	return family
}
