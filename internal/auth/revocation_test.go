package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisRevocations(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("blacklist:jti-1"))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocations_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	_, err := NewRedisRevocations(client).IsRevoked(context.Background(), "x")
	assert.Error(t, err)
}

func TestMemoryRevocations_Expiry(t *testing.T) {
	store := NewMemoryRevocations()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "a", time.Minute))
	require.NoError(t, store.Revoke(ctx, "ignored", 0))

	ok, _ := store.IsRevoked(ctx, "a")
	assert.True(t, ok)
	ok, _ = store.IsRevoked(ctx, "ignored")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = store.IsRevoked(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, store.Revoke(ctx, "b", time.Minute))
	assert.NotContains(t, store.revoked, "a")
}
