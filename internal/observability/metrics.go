package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts by result.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialautomator_login_attempts_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// PostsComposed counts composed posts by resulting status.
	PostsComposed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialautomator_posts_composed_total",
		Help: "Total number of posts composed by status",
	}, []string{"status"})

	// AdminActions counts admin user-table actions by action name.
	AdminActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialautomator_admin_actions_total",
		Help: "Total number of admin actions on managed users",
	}, []string{"action"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialautomator_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by key family and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialautomator_cache_lookups_total",
		Help: "Cache lookups by key family and outcome",
	}, []string{"family", "outcome"})

	// EventPublishFailures counts events that could not be delivered.
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialautomator_event_publish_failures_total",
		Help: "Events that failed to publish by event type",
	}, []string{"type"})
)
