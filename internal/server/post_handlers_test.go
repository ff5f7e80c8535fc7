package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"socialautomator/internal/auth"
	"socialautomator/internal/models"
	"socialautomator/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func getPosts(t *testing.T, s *Server) []*models.Post {
	t.Helper()
	posts, err := s.postService.List(testContext(t), service.ListPostsInput{})
	require.NoError(t, err)
	return posts
}

func TestCreatePost(t *testing.T) {
	s, app := newTestServer(t)
	token := login(t, app, userEmail)

	tests := []struct {
		name       string
		body       map[string]any
		status     int
		postStatus models.PostStatus
	}{
		{
			name:   "empty content",
			body:   map[string]any{"content": "   ", "platforms": []string{"twitter"}},
			status: http.StatusBadRequest,
		},
		{
			name:   "no platforms",
			body:   map[string]any{"content": "Hello"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown platform",
			body:   map[string]any{"content": "Hello", "platforms": []string{"myspace"}},
			status: http.StatusBadRequest,
		},
		{
			name:       "draft",
			body:       map[string]any{"content": "Hello", "platforms": []string{"twitter", "linkedin"}},
			status:     http.StatusCreated,
			postStatus: models.PostStatusDraft,
		},
		{
			name: "half schedule stays draft",
			body: map[string]any{
				"content": "Hello", "platforms": []string{"facebook"}, "scheduled_date": "2030-01-02",
			},
			status:     http.StatusCreated,
			postStatus: models.PostStatusDraft,
		},
		{
			name: "scheduled",
			body: map[string]any{
				"content": "Hello", "platforms": []string{"instagram"},
				"scheduled_date": "2030-01-02", "scheduled_time": "09:30",
			},
			status:     http.StatusCreated,
			postStatus: models.PostStatusScheduled,
		},
		{
			name: "malformed schedule",
			body: map[string]any{
				"content": "Hello", "platforms": []string{"instagram"},
				"scheduled_date": "02/01/2030", "scheduled_time": "09:30",
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(getPosts(t, s))

			resp := doRequest(t, app, http.MethodPost, "/api/posts", token, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)

			after := getPosts(t, s)
			if tt.status != http.StatusCreated {
				assert.Len(t, after, before)
				return
			}

			var created models.Post
			decodeBody(t, resp, &created)
			assert.Len(t, after, before+1)
			assert.Equal(t, created.ID, after[0].ID)
			assert.Equal(t, tt.postStatus, created.Status)
			assert.Equal(t, tt.postStatus == models.PostStatusScheduled, created.ScheduledFor != nil)
			assert.Zero(t, created.Engagement.Total())
		})
	}
}

func TestGetPostsFiltersByStatus(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodGet, "/api/posts?status=published", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []*models.Post
	decodeBody(t, resp, &posts)
	require.NotEmpty(t, posts)
	for _, p := range posts {
		assert.Equal(t, models.PostStatusPublished, p.Status)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/posts?status=archived", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPostsNewestFirst(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []*models.Post
	decodeBody(t, resp, &posts)

	require.Len(t, posts, 4)
	got := make([]string, 0, len(posts))
	for i, p := range posts {
		got = append(got, p.ID)
		if i > 0 {
			assert.False(t, p.CreatedAt.After(posts[i-1].CreatedAt), "post %s out of order", p.ID)
		}
	}
	assert.Equal(t, []string{"1", "4", "3", "2"}, got)
}

func TestUpdatePost(t *testing.T) {
	s, app := newTestServer(t)
	token := login(t, app, userEmail)
	var original *models.Post
	for _, p := range getPosts(t, s) {
		if p.Status == models.PostStatusPublished && p.Engagement.Total() > 0 {
			original = p
			break
		}
	}
	require.NotNil(t, original)

	resp := doRequest(t, app, http.MethodPut, "/api/posts/"+original.ID, token, map[string]any{
		"content": "Edited", "platforms": []string{"twitter"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Post
	decodeBody(t, resp, &updated)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Edited", updated.Content)
	assert.Equal(t, original.Engagement, updated.Engagement)
	assert.True(t, updated.CreatedAt.Equal(original.CreatedAt))

	resp = doRequest(t, app, http.MethodPut, "/api/posts/missing", token, map[string]any{
		"content": "Edited", "platforms": []string{"twitter"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeletePost(t *testing.T) {
	s, app := newTestServer(t)
	token := login(t, app, userEmail)
	before := getPosts(t, s)
	target := before[2].ID

	resp := doRequest(t, app, http.MethodDelete, "/api/posts/"+target, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after := getPosts(t, s)
	require.Len(t, after, len(before)-1)
	for _, p := range after {
		assert.NotEqual(t, target, p.ID)
	}

	resp = doRequest(t, app, http.MethodDelete, "/api/posts/"+target, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/posts/"+target, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostStats(t *testing.T) {
	_, app := newTestServer(t)
	token := login(t, app, userEmail)

	resp := doRequest(t, app, http.MethodGet, "/api/posts/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats models.PostStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, 1, stats.Scheduled)
	assert.Equal(t, 2, stats.Published)
	assert.Equal(t, 1, stats.Drafts)
	assert.Positive(t, stats.TotalEngagement)
}

func TestPostHandlersStoreFailure(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := &Server{postService: service.NewPostService(mockRepo, nil, nil, time.UTC)}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localSession, &auth.Session{User: &models.User{ID: "1", Role: models.RoleUser}})
		return c.Next()
	})
	app.Get("/posts", s.GetPosts)
	app.Post("/posts", s.CreatePost)

	storeErr := errors.New("connection reset")
	mockRepo.On("List", mock.Anything).Return(nil, storeErr)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(storeErr)

	resp := doRequest(t, app, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.CodeInternal, body.Code)

	resp = doRequest(t, app, http.MethodPost, "/posts", "", map[string]any{
		"content": "Hello", "platforms": []string{"twitter"},
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}
