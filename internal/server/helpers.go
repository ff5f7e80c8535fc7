package server

import (
	"context"
	"errors"
	"log/slog"

	"socialautomator/internal/auth"
	"socialautomator/internal/models"
	"socialautomator/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const localSession = "session"

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// currentSession returns the session set by AuthRequired, or an anonymous one.
func currentSession(c *fiber.Ctx) *auth.Session {
	if s, ok := c.Locals(localSession).(*auth.Session); ok && s != nil {
		return s
	}
	return auth.Anonymous()
}

// mapServiceError maps an AppError code to an HTTP status. A bare context
// error counts as a canceled request.
func mapServiceError(err error) int {
	code := models.ErrorCode(err)
	if code == "" && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		code = models.CodeCanceled
	}
	switch code {
	case models.CodeCanceled:
		return fiber.StatusRequestTimeout
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes err with the status its code maps to. Context
// cancellation is a 408 logged at info level. Other errors outside the
// taxonomy are logged and hidden behind a generic internal error.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	status := mapServiceError(err)
	switch status {
	case fiber.StatusRequestTimeout:
		observability.GlobalLogger.InfoContext(c.UserContext(), "request canceled",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		if models.ErrorCode(err) == "" {
			err = models.NewCanceledError(err)
		}
	case fiber.StatusInternalServerError:
		observability.GlobalLogger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		if models.ErrorCode(err) == "" {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the request body into dest. On failure it writes a 400
// and returns errResponseWritten; callers should return nil.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}
