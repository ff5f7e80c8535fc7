package mockdata

import (
	"testing"
	"time"

	"socialautomator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Ranges(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ds := Generate(now, 42)

	require.Len(t, ds.Users, 2)
	require.Len(t, ds.Posts, 4)
	require.Len(t, ds.Notifications, 3)
	require.Len(t, ds.Activity, 3)
	require.Len(t, ds.Analytics, 4)

	for _, p := range models.Platforms {
		a := ds.Analytics[p]
		require.NotNil(t, a, p)
		assert.GreaterOrEqual(t, a.Followers, 1000)
		assert.Less(t, a.Followers, 11000)
		assert.GreaterOrEqual(t, a.Engagement, 1.0)
		assert.Less(t, a.Engagement, 6.0)
		assert.GreaterOrEqual(t, a.Impressions, 5000)
		assert.Less(t, a.Impressions, 55000)
		assert.GreaterOrEqual(t, a.Growth, -5.0)
		assert.Less(t, a.Growth, 10.0)
		assert.LessOrEqual(t, len(a.RecentPosts), 3)
		for _, post := range a.RecentPosts {
			assert.Equal(t, models.PostStatusPublished, post.Status)
			assert.True(t, post.HasPlatform(p))
		}
	}

	// Only published seed posts feed recent posts: instagram has post 3 alone.
	require.Len(t, ds.Analytics[models.PlatformInstagram].RecentPosts, 1)
	assert.Equal(t, "3", ds.Analytics[models.PlatformInstagram].RecentPosts[0].ID)
	assert.Len(t, ds.Analytics[models.PlatformLinkedIn].RecentPosts, 1)

	// Facebook has posts 2 and 3; the newer one comes first.
	facebook := ds.Analytics[models.PlatformFacebook].RecentPosts
	require.Len(t, facebook, 2)
	assert.Equal(t, "3", facebook[0].ID)
	assert.Equal(t, "2", facebook[1].ID)
}

func TestGenerate_Timeline(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ds := Generate(now, 7)

	require.Len(t, ds.Timeline, TimelineDays+1)
	assert.Equal(t, "2026-02-12", ds.Timeline[0].Date)
	assert.Equal(t, "2026-03-14", ds.Timeline[len(ds.Timeline)-1].Date)
	for _, pt := range ds.Timeline {
		assert.True(t, pt.Twitter >= 100 && pt.Twitter < 600)
		assert.True(t, pt.Instagram >= 200 && pt.Instagram < 1000)
		assert.True(t, pt.Facebook >= 150 && pt.Facebook < 750)
		assert.True(t, pt.LinkedIn >= 50 && pt.LinkedIn < 450)
	}
}

func TestGenerate_ManagedUsers(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ds := Generate(now, 1)

	require.Len(t, ds.ManagedUsers, ManagedUserCount)
	assert.Equal(t, "user-3", ds.ManagedUsers[0].ID)
	assert.Equal(t, "User 1", ds.ManagedUsers[0].Name)
	assert.Equal(t, "user10@example.com", ds.ManagedUsers[9].Email)

	for i, u := range ds.ManagedUsers {
		if i < 2 {
			assert.Equal(t, models.RoleAdmin, u.Role)
		} else {
			assert.Equal(t, models.RoleUser, u.Role)
		}
		if i < 8 {
			assert.Equal(t, models.AccountActive, u.Status)
		} else {
			assert.Equal(t, models.AccountInactive, u.Status)
		}
		assert.True(t, u.PostsCount >= 0 && u.PostsCount < 50)
		ago := now.Sub(u.LastActive)
		assert.Zero(t, ago%day)
		assert.True(t, ago >= 0 && ago < 30*day)
	}
}

func TestGenerate_SameSeedIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	a := Generate(now, 99)
	b := Generate(now, 99)

	assert.Equal(t, a.Timeline, b.Timeline)
	assert.Equal(t, a.ManagedUsers, b.ManagedUsers)
	assert.Equal(t, a.Analytics[models.PlatformTwitter].Followers, b.Analytics[models.PlatformTwitter].Followers)
}

func TestPosts_Seed(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	posts := Posts(now)

	require.NotNil(t, posts[0].ScheduledFor)
	assert.Equal(t, now.Add(day), *posts[0].ScheduledFor)
	assert.Equal(t, models.PostStatusScheduled, posts[0].Status)
	assert.Equal(t, 187, posts[1].Engagement.Total())
	assert.Equal(t, models.PostStatusDraft, posts[3].Status)
}
