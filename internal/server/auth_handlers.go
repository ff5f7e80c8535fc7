package server

import (
	"time"

	"socialautomator/internal/auth"
	"socialautomator/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionResponse describes the gate state of the caller.
type SessionResponse struct {
	State           auth.State   `json:"state"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsAdmin         bool         `json:"is_admin"`
	User            *models.User `json:"user,omitempty"`
	ExpiresAt       *time.Time   `json:"expires_at,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	SessionResponse
}

func sessionResponse(session *auth.Session) SessionResponse {
	resp := SessionResponse{
		State:           session.State(),
		IsAuthenticated: session.IsAuthenticated(),
		IsAdmin:         session.IsAdmin(),
		User:            session.User,
	}
	if !session.ExpiresAt.IsZero() {
		exp := session.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}

// Login handles POST /api/auth/login
// @Summary Admin dashboard login
// @Description Authenticate with email and password and return a signed session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} object{error=string}
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ctx := c.UserContext()
	session, token, err := s.gate.Login(ctx, req.Email, req.Password)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	setSession(c, session)
	s.adminService.Record(c.UserContext(), session.User.ID, models.ActionLogin, "User logged in")

	return c.JSON(LoginResponse{Token: token, SessionResponse: sessionResponse(session)})
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description Revoke the current session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	session := currentSession(c)
	if err := s.gate.Logout(c.UserContext(), session); err != nil {
		return s.respondServiceError(c, err)
	}
	s.adminService.Record(c.UserContext(), session.User.ID, models.ActionLogout, "User logged out")

	return c.JSON(sessionResponse(auth.Anonymous()))
}

// Me handles GET /api/auth/me. Without a token the caller is anonymous; a
// token that does not resolve is rejected.
// @Summary Current session
// @Description Report the gate state of the caller, anonymous when no token is sent
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.JSON(sessionResponse(auth.Anonymous()))
	}
	session, err := s.gate.Resolve(c.UserContext(), token)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(sessionResponse(session))
}
