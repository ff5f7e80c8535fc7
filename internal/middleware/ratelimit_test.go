package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLimiterAllow(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		nilDB bool
		allow bool
		err   bool
	}{
		{name: "test environment bypass", env: "test", nilDB: true, allow: true},
		{name: "development environment bypass", env: "development", nilDB: true, allow: true},
		{name: "nil redis in production", env: "production", nilDB: true, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(nil, tt.env)
			allowed, err := l.Allow(context.Background(), "login", "ip:1", 1, time.Minute)
			if tt.err {
				assert.Error(t, err)
				assert.False(t, allowed)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.allow, allowed)
		})
	}
}

func TestLimiterRestoresMissingExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "production")
	ctx := context.Background()

	// A counter left behind without a TTL, as after a failed EXPIRE.
	require.NoError(t, mr.Set("rl:login:ip:1", "5"))
	require.Equal(t, time.Duration(0), mr.TTL("rl:login:ip:1"))

	allowed, err := l.Allow(ctx, "login", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, mr.TTL("rl:login:ip:1"), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = l.Allow(ctx, "login", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterKeepsWindowOnLaterHits(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "production")
	ctx := context.Background()

	_, err := l.Allow(ctx, "login", "ip:1", 5, time.Minute)
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = l.Allow(ctx, "login", "ip:1", 5, time.Minute)
	require.NoError(t, err)

	ttl := mr.TTL("rl:login:ip:1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 20*time.Second)
}

func TestLimiterRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "production")
	mr.Close()

	allowed, err := l.Allow(context.Background(), "login", "ip:1", 2, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestLimiterCountsWithinWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "production")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := l.Allow(ctx, "login", "ip:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := l.Allow(ctx, "login", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Greater(t, mr.TTL("rl:login:ip:1"), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = l.Allow(ctx, "login", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterHandler(t *testing.T) {
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	t.Run("bypass in test mode", func(t *testing.T) {
		app := fiber.New()
		app.Get("/x", NewLimiter(nil, "test").Handler(1, time.Minute, FailOpen), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("fail open with nil redis", func(t *testing.T) {
		app := fiber.New()
		app.Get("/x", NewLimiter(nil, "production").Handler(1, time.Minute, FailOpen), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("fail closed with nil redis", func(t *testing.T) {
		app := fiber.New()
		app.Get("/x", NewLimiter(nil, "production").Handler(1, time.Minute, FailClosed), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("rejects over limit", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		app := fiber.New()
		app.Post("/login", NewLimiter(rdb, "production").Handler(1, time.Minute, FailClosed, "login"), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})
}
