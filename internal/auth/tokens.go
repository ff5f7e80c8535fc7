package auth

import (
	"errors"
	"fmt"
	"time"

	"socialautomator/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token issuer and audience.
const (
	Issuer   = "socialautomator-api"
	Audience = "socialautomator-client"
)

// Claims is the decoded, validated content of a session token.
type Claims struct {
	Subject   string
	Role      models.Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret and lifetime ttl.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user.
func (t *Tokens) Issue(user *models.User) (string, *Claims, error) {
	if len(t.secret) == 0 {
		return "", nil, errors.New("JWT secret not configured")
	}

	now := t.now()
	c := &Claims{
		Subject:   user.ID,
		Role:      user.Role,
		TokenID:   generateJTI(now),
		IssuedAt:  now,
		ExpiresAt: now.Add(t.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  c.Subject,
		"role": string(c.Role),
		"iss":  Issuer,
		"aud":  Audience,
		"exp":  c.ExpiresAt.Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  c.TokenID,
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, c, nil
}

// Parse verifies signature, time window, issuer and audience.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || jti == "" {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	out := &Claims{Subject: sub, Role: models.Role(role), TokenID: jti}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}

func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}
