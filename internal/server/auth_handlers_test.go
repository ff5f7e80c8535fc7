package server

import (
	"net/http"
	"testing"

	"socialautomator/internal/auth"
	"socialautomator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"user", map[string]string{"email": userEmail, "password": "x"}, http.StatusOK, ""},
		{"admin mixed case", map[string]string{"email": " Admin@Example.com ", "password": "x"}, http.StatusOK, ""},
		{"missing password", map[string]string{"email": userEmail}, http.StatusBadRequest, models.CodeValidation},
		{"missing email", map[string]string{"password": "x"}, http.StatusBadRequest, models.CodeValidation},
		{"unknown email", map[string]string{"email": "nobody@example.com", "password": "x"}, http.StatusUnauthorized, models.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code != "" {
				var body models.ErrorResponse
				decodeBody(t, resp, &body)
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	_, app := newTestServer(t)

	req := doRequest(t, app, http.MethodPost, "/api/auth/login", "", "not an object")
	assert.Equal(t, http.StatusBadRequest, req.StatusCode)
}

func TestLoginReturnsSession(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": adminEmail, "password": "x",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out LoginResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, auth.StateAuthenticated, out.State)
	assert.True(t, out.IsAuthenticated)
	assert.True(t, out.IsAdmin)
	require.NotNil(t, out.User)
	assert.Equal(t, "Sam Wilson", out.User.Name)
	assert.NotNil(t, out.ExpiresAt)
}

func TestMe(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var anon SessionResponse
	decodeBody(t, resp, &anon)
	assert.Equal(t, auth.StateAnonymous, anon.State)
	assert.False(t, anon.IsAuthenticated)
	assert.Nil(t, anon.User)

	token := login(t, app, userEmail)
	resp = doRequest(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me SessionResponse
	decodeBody(t, resp, &me)
	assert.Equal(t, auth.StateAuthenticated, me.State)
	assert.False(t, me.IsAdmin)
	assert.Equal(t, "1", me.User.ID)

	resp = doRequest(t, app, http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out SessionResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, auth.StateAnonymous, out.State)

	resp = doRequest(t, app, http.MethodGet, "/api/posts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAndLogoutAreRecorded(t *testing.T) {
	s, app := newTestServer(t)
	token := login(t, app, userEmail)
	_ = doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)

	entries, err := s.adminService.Activity(testContext(t), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionLogout, entries[0].Action)
	assert.Equal(t, models.ActionLogin, entries[1].Action)
	assert.Equal(t, "1", entries[1].UserID)
}
