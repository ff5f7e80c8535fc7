package server

import (
	"net/http"
	"testing"

	"socialautomator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAnalyticsOverview(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodGet, "/api/analytics/overview", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var overview models.AnalyticsOverview
	decodeBody(t, resp, &overview)
	require.Len(t, overview.Platforms, 4)
	assert.Equal(t, 4, overview.ActivePlatforms)
	assert.Len(t, overview.RecentTimeline, 7)

	total := 0
	for _, p := range overview.Platforms {
		total += p.Followers
	}
	assert.Equal(t, total, overview.TotalFollowers)
}

func TestGetAnalyticsTimeline(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	tests := []struct {
		query  string
		status int
		points int
	}{
		{"", http.StatusOK, 7},
		{"?days=31", http.StatusOK, 31},
		{"?days=1", http.StatusOK, 1},
		{"?days=32", http.StatusBadRequest, 0},
		{"?days=0", http.StatusBadRequest, 0},
		{"?days=week", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, "/api/analytics/timeline"+tt.query, token, nil)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			var points []models.TimelinePoint
			decodeBody(t, resp, &points)
			assert.Len(t, points, tt.points)
		})
	}
}

func TestGetPlatformAnalytics(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodGet, "/api/analytics/platforms/twitter", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var data models.AnalyticsData
	decodeBody(t, resp, &data)
	assert.Equal(t, models.PlatformTwitter, data.Platform)
	assert.GreaterOrEqual(t, data.Followers, 1000)

	resp = doRequest(t, app, http.MethodGet, "/api/analytics/platforms/myspace", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetNotifications(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Notifications []*models.Notification `json:"notifications"`
		UnreadCount   int                    `json:"unread_count"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Notifications, 3)
	assert.Equal(t, 2, body.UnreadCount)
}
