package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialautomator/internal/events"
	"socialautomator/internal/mockdata"
	"socialautomator/internal/models"
	"socialautomator/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

var alex = &models.User{ID: "1", Name: "Alex Johnson", Role: models.RoleUser}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// failingPostRepo fails every call with err.
type failingPostRepo struct{ err error }

func (r failingPostRepo) List(context.Context) ([]*models.Post, error) { return nil, r.err }
func (r failingPostRepo) GetByID(context.Context, string) (*models.Post, error) {
	return nil, r.err
}
func (r failingPostRepo) Create(context.Context, *models.Post) error { return r.err }
func (r failingPostRepo) Update(context.Context, *models.Post) error { return r.err }
func (r failingPostRepo) Delete(context.Context, string) error       { return r.err }

func newTestPostService(t *testing.T) (*PostService, repository.PostRepository, repository.ActivityRepository, *recordingPublisher) {
	t.Helper()
	posts := repository.NewMemoryPostRepository(mockdata.Posts(testNow))
	activity := repository.NewActivityRepository(nil, 0)
	pub := &recordingPublisher{}
	svc := NewPostService(posts, activity, events.NewEmitter(pub), time.UTC)
	svc.now = func() time.Time { return testNow }
	return svc, posts, activity, pub
}

func TestPostService_ComposeValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   ComposeInput
		message string
	}{
		{"empty content", ComposeInput{Content: "", Platforms: []models.Platform{models.PlatformTwitter}}, "Post content is required"},
		{"whitespace content", ComposeInput{Content: "  \n\t", Platforms: []models.Platform{models.PlatformTwitter}}, "Post content is required"},
		{"no platforms", ComposeInput{Content: "hi"}, "Select at least one platform"},
		{"unknown platform", ComposeInput{Content: "hi", Platforms: []models.Platform{"myspace"}}, `Unknown platform "myspace"`},
		{"bad media", ComposeInput{Content: "hi", Platforms: []models.Platform{models.PlatformTwitter}, Media: []string{"ftp://x"}}, `Invalid media URL "ftp://x"`},
		{"bad date", ComposeInput{Content: "hi", Platforms: []models.Platform{models.PlatformTwitter}, ScheduledDate: "2026-13-40", ScheduledTime: "10:00"}, "Invalid schedule date or time"},
		{"bad time", ComposeInput{Content: "hi", Platforms: []models.Platform{models.PlatformTwitter}, ScheduledDate: "2026-03-20", ScheduledTime: "25:99"}, "Invalid schedule date or time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, posts, _, pub := newTestPostService(t)
			before, _ := posts.List(context.Background())

			_, err := svc.Compose(context.Background(), alex, tt.input)
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
			assert.EqualError(t, err, tt.message)

			after, _ := posts.List(context.Background())
			assert.Len(t, after, len(before))
			assert.Empty(t, pub.events)
		})
	}
}

func TestPostService_ComposeStatus(t *testing.T) {
	tests := []struct {
		name           string
		date, clock    string
		expectedStatus models.PostStatus
		expectSchedule bool
	}{
		{"no schedule", "", "", models.PostStatusDraft, false},
		{"date only", "2026-03-20", "", models.PostStatusDraft, false},
		{"time only", "", "09:30", models.PostStatusDraft, false},
		{"date and time", "2026-03-20", "09:30", models.PostStatusScheduled, true},
		{"date and time with seconds", "2026-03-20", "09:30:15", models.PostStatusScheduled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, posts, _, _ := newTestPostService(t)
			post, err := svc.Compose(context.Background(), alex, ComposeInput{
				Content:       "Launch day",
				Platforms:     []models.Platform{models.PlatformTwitter},
				ScheduledDate: tt.date,
				ScheduledTime: tt.clock,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, post.Status)
			assert.Equal(t, tt.expectSchedule, post.ScheduledFor != nil)

			list, _ := posts.List(context.Background())
			require.Len(t, list, 5)
			assert.Equal(t, post.ID, list[0].ID)
		})
	}
}

func TestPostService_ComposeScheduleUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	svc := NewPostService(repository.NewMemoryPostRepository(nil), nil, nil, loc)

	post, err := svc.Compose(context.Background(), alex, ComposeInput{
		Content:       "x",
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledDate: "2026-03-20",
		ScheduledTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC), post.ScheduledFor.UTC())
}

func TestPostService_ComposeRecord(t *testing.T) {
	svc, _, activity, pub := newTestPostService(t)

	post, err := svc.Compose(context.Background(), alex, ComposeInput{
		Content:   "Hello",
		Platforms: []models.Platform{models.PlatformLinkedIn, models.PlatformTwitter, models.PlatformLinkedIn},
		Media:     []string{" ", "https://example.com/a.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Platform{models.PlatformLinkedIn, models.PlatformTwitter}, post.Platforms)
	assert.Equal(t, []string{"https://example.com/a.png"}, post.Media)
	assert.Equal(t, models.Engagement{}, post.Engagement)
	assert.Equal(t, testNow, post.CreatedAt)
	assert.Equal(t, testNow, post.UpdatedAt)
	assert.Equal(t, "1773489600000", post.ID)

	entries, _ := activity.List(context.Background(), 0)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionPostCreate, entries[0].Action)
	assert.Equal(t, "Created new post for LinkedIn and Twitter", entries[0].Details)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.PostCreated, pub.events[0].Type)
}

func TestPostService_IDsStrictlyIncrease(t *testing.T) {
	svc, _, _, _ := newTestPostService(t)
	in := ComposeInput{Content: "a", Platforms: []models.Platform{models.PlatformTwitter}}

	first, err := svc.Compose(context.Background(), alex, in)
	require.NoError(t, err)
	second, err := svc.Compose(context.Background(), alex, in)
	require.NoError(t, err)

	assert.Equal(t, "1773489600000", first.ID)
	assert.Equal(t, "1773489600001", second.ID)
}

func TestPostService_Replace(t *testing.T) {
	svc, _, _, pub := newTestPostService(t)
	later := testNow.Add(time.Hour)
	svc.now = func() time.Time { return later }

	updated, err := svc.Replace(context.Background(), alex, "2", ComposeInput{
		Content:   "Rewritten",
		Platforms: []models.Platform{models.PlatformInstagram},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.ID)
	assert.Equal(t, "Rewritten", updated.Content)
	assert.Equal(t, models.PostStatusDraft, updated.Status)
	assert.Equal(t, 127, updated.Engagement.Likes)
	assert.Equal(t, testNow.Add(-3*24*time.Hour), updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, events.PostUpdated, pub.events[0].Type)

	_, err = svc.Replace(context.Background(), alex, "404", ComposeInput{Content: "x", Platforms: []models.Platform{models.PlatformTwitter}})
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	_, err = svc.Replace(context.Background(), alex, "2", ComposeInput{Content: ""})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestPostService_Delete(t *testing.T) {
	svc, posts, _, _ := newTestPostService(t)

	require.NoError(t, svc.Delete(context.Background(), alex, "3"))
	list, _ := posts.List(context.Background())
	require.Len(t, list, 3)
	for _, p := range list {
		assert.NotEqual(t, "3", p.ID)
	}

	err := svc.Delete(context.Background(), alex, "3")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestPostService_ListAndStats(t *testing.T) {
	svc, _, _, _ := newTestPostService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, ListPostsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	published, err := svc.List(ctx, ListPostsInput{Status: models.PostStatusPublished})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	_, err = svc.List(ctx, ListPostsInput{Status: "archived"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.PostStats{Scheduled: 1, Published: 2, Drafts: 1, TotalEngagement: 187 + 410}, stats)
}

func TestPostService_RepositoryErrors(t *testing.T) {
	boom := models.NewInternalError(errors.New("db down"))
	svc := NewPostService(failingPostRepo{err: boom}, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Compose(ctx, alex, ComposeInput{Content: "x", Platforms: []models.Platform{models.PlatformTwitter}})
	assert.ErrorIs(t, err, boom)
	_, err = svc.Stats(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = svc.List(ctx, ListPostsInput{})
	assert.ErrorIs(t, err, boom)
}
