package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"socialautomator/internal/observability"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked token ids until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocations keeps revoked ids under blacklist:<jti> with a TTL.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations returns a RevocationStore backed by client.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

// Revoke implements RevocationStore.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, blacklistKey(jti), "revoked", ttl).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("revoke").Inc()
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationStore.
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.Get(ctx, blacklistKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("is_revoked").Inc()
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}

// MemoryRevocations is the in-process RevocationStore used without Redis.
type MemoryRevocations struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations returns an empty in-process store.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke implements RevocationStore. Expired entries are swept on write.
func (m *MemoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, until := range m.revoked {
		if !now.Before(until) {
			delete(m.revoked, id)
		}
	}
	m.revoked[jti] = now.Add(ttl)
	return nil
}

// IsRevoked implements RevocationStore.
func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	until, ok := m.revoked[jti]
	m.mu.RUnlock()
	return ok && m.now().Before(until), nil
}
