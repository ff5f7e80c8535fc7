// Package events publishes post-lifecycle and admin events to a broker.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"socialautomator/internal/observability"

	"github.com/google/uuid"
)

// Type names an event.
type Type string

const (
	PostCreated       Type = "post.created"
	PostUpdated       Type = "post.updated"
	PostDeleted       Type = "post.deleted"
	AdminBulkAction   Type = "admin.bulk_action"
	AdminStatusChange Type = "admin.status_change"
	SettingsUpdated   Type = "settings.updated"
)

// Event is the JSON envelope written to the broker.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	ActorID    string          `json:"actor_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// DefaultPublishTimeout bounds a single Publish call made by an Emitter.
const DefaultPublishTimeout = 2 * time.Second

// Emitter builds envelopes and publishes them, logging failures instead of returning them.
type Emitter struct {
	pub     Publisher
	now     func() time.Time
	timeout time.Duration
}

// NewEmitter wraps pub. A nil pub discards events.
func NewEmitter(pub Publisher) *Emitter {
	if pub == nil {
		pub = Nop{}
	}
	return &Emitter{pub: pub, now: time.Now, timeout: DefaultPublishTimeout}
}

// Emit publishes an event of type t carrying payload.
func (e *Emitter) Emit(ctx context.Context, t Type, actorID string, payload any) {
	if e == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		observability.GlobalLogger.ErrorContext(ctx, "failed to encode event",
			slog.String("type", string(t)), slog.String("error", err.Error()))
		observability.EventPublishFailures.WithLabelValues(string(t)).Inc()
		return
	}

	event := Event{
		ID:         uuid.NewString(),
		Type:       t,
		ActorID:    actorID,
		OccurredAt: e.now().UTC(),
		Payload:    raw,
	}
	// Publishing outlives a cancelled request but never blocks the caller past the timeout.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	if err := e.pub.Publish(pubCtx, event); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to publish event",
			slog.String("type", string(t)),
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		observability.EventPublishFailures.WithLabelValues(string(t)).Inc()
	}
}

// Close closes the underlying publisher.
func (e *Emitter) Close() error {
	return e.pub.Close()
}
