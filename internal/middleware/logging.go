// Package middleware holds the Fiber middleware shared by every route group.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"socialautomator/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals written by the request pipeline.
const (
	LocalRequestID = "requestid"
	LocalUserID    = "userID"
	LocalTraceID   = "traceID"
)

// ContextMiddleware copies request, user and trace ids from Fiber locals into the
// user context so the context-aware logger picks them up in the service layer.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(Enrich(c))
		return c.Next()
	}
}

// Enrich returns the user context extended with whatever ids are present in locals.
// Auth middleware calls it again once the user id is known.
func Enrich(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if rid, ok := c.Locals(LocalRequestID).(string); ok && rid != "" {
		ctx = observability.WithRequestID(ctx, rid)
	}
	if uid, ok := c.Locals(LocalUserID).(string); ok && uid != "" {
		ctx = observability.WithUserID(ctx, uid)
	}
	if tid, ok := c.Locals(LocalTraceID).(string); ok && tid != "" {
		ctx = observability.WithTraceID(ctx, tid)
	}
	return ctx
}

// StructuredLogger logs one line per request through the global slog logger.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			observability.GlobalLogger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			observability.GlobalLogger.InfoContext(c.UserContext(), "request processed", fields...)
		}
		return err
	}
}
