// Package auth implements the mocked sign-in gate and the session tokens
// that carry its state across requests.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"socialautomator/internal/models"
	"socialautomator/internal/observability"
)

// State is the position of a client in the gate state machine.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Session is the resolved identity of a request. The zero value is anonymous.
type Session struct {
	User      *models.User `json:"user,omitempty"`
	TokenID   string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
}

// Anonymous returns a session with no user.
func Anonymous() *Session { return &Session{} }

// State derives the gate state from the session.
func (s *Session) State() State {
	if s.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}

// IsAdmin reports whether the signed-in user is an administrator.
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

// UserDirectory looks up the accounts that may sign in.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Gate moves clients between the anonymous and authenticated states.
type Gate struct {
	users   UserDirectory
	tokens  *Tokens
	revoked RevocationStore
	delay   time.Duration
}

// NewGate wires a gate. delay is waited before every credential check.
func NewGate(users UserDirectory, tokens *Tokens, revoked RevocationStore, delay time.Duration) *Gate {
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	return &Gate{users: users, tokens: tokens, revoked: revoked, delay: delay}
}

// Login authenticates email. Any password is accepted for a known email.
func (g *Gate) Login(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		observability.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, "", models.NewValidationError("Please fill in all fields")
	}

	if err := g.wait(ctx); err != nil {
		observability.LoginAttempts.WithLabelValues("canceled").Inc()
		return nil, "", models.NewCanceledError(err)
	}

	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			observability.LoginAttempts.WithLabelValues("rejected").Inc()
			return nil, "", models.NewUnauthorizedError("Invalid email or password")
		}
		return nil, "", err
	}

	token, claims, err := g.tokens.Issue(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.LoginAttempts.WithLabelValues("success").Inc()
	observability.GlobalLogger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return &Session{User: user, TokenID: claims.TokenID, ExpiresAt: claims.ExpiresAt}, token, nil
}

func (g *Gate) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Logout revokes the session token. Logging out an anonymous session does nothing.
func (g *Gate) Logout(ctx context.Context, s *Session) error {
	if !s.IsAuthenticated() || s.TokenID == "" {
		return nil
	}
	ttl := time.Until(s.ExpiresAt)
	if err := g.revoked.Revoke(ctx, s.TokenID, ttl); err != nil {
		return models.NewInternalError(err)
	}
	observability.GlobalLogger.InfoContext(ctx, "user logged out", slog.String("user_id", s.User.ID))
	return nil
}

// Resolve turns a bearer token into a session.
func (g *Gate) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := g.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if revoked {
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}

	user, err := g.users.GetByID(ctx, claims.Subject)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, err
	}
	return &Session{User: user, TokenID: claims.TokenID, ExpiresAt: claims.ExpiresAt}, nil
}
