package service

import (
	"context"
	"testing"
	"time"

	"socialautomator/internal/cache"
	"socialautomator/internal/mockdata"
	"socialautomator/internal/models"
	"socialautomator/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedAnalytics() map[models.Platform]*models.AnalyticsData {
	return map[models.Platform]*models.AnalyticsData{
		models.PlatformTwitter:   {Platform: models.PlatformTwitter, Followers: 1000, Engagement: 2, Impressions: 5000, Growth: -4},
		models.PlatformInstagram: {Platform: models.PlatformInstagram, Followers: 2000, Engagement: 4, Impressions: 6000, Growth: 2},
		models.PlatformFacebook:  {Platform: models.PlatformFacebook, Followers: 3000, Engagement: 3, Impressions: 7000, Growth: 6},
		models.PlatformLinkedIn:  {Platform: models.PlatformLinkedIn, Followers: 4000, Engagement: 5, Impressions: 8000, Growth: 0},
	}
}

func newTestAnalytics(t *testing.T, c *cache.Cache) *AnalyticsService {
	t.Helper()
	ds := mockdata.Generate(testNow, 3)
	posts := repository.NewMemoryPostRepository(ds.Posts)
	return NewAnalyticsService(fixedAnalytics(), ds.Timeline, posts, c, time.Minute)
}

func TestAnalyticsService_Overview(t *testing.T) {
	svc := newTestAnalytics(t, cache.New(nil))

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10000, o.TotalFollowers)
	assert.Equal(t, 26000, o.TotalImpressions)
	assert.InDelta(t, 3.5, o.AvgEngagement, 1e-9)
	assert.InDelta(t, 1.0, o.AvgGrowth, 1e-9)
	assert.Equal(t, 4, o.ActivePlatforms)
	require.Len(t, o.Platforms, 4)
	assert.Equal(t, models.PlatformFacebook, o.Platforms[0].Platform)
	assert.Equal(t, models.PlatformTwitter, o.Platforms[3].Platform)
	require.Len(t, o.RecentTimeline, 7)
	assert.Equal(t, "2026-03-14", o.RecentTimeline[6].Date)
}

func TestAnalyticsService_OverviewIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := newTestAnalytics(t, cache.New(client))
	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.AnalyticsOverviewKey))

	svc.data[models.PlatformTwitter].Followers = 999999
	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalFollowers, second.TotalFollowers)
}

func TestAnalyticsService_Timeline(t *testing.T) {
	svc := newTestAnalytics(t, nil)
	ctx := context.Background()

	points, err := svc.Timeline(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, points, DefaultTimelineDays)

	points, err = svc.Timeline(ctx, 31)
	require.NoError(t, err)
	assert.Len(t, points, 31)
	assert.Equal(t, "2026-03-14", points[30].Date)

	for _, days := range []int{-1, 32} {
		_, err = svc.Timeline(ctx, days)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	}
}

func TestAnalyticsService_ContentInsights(t *testing.T) {
	svc := newTestAnalytics(t, nil)

	in, err := svc.ContentInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, in.TotalPosts)
	assert.Equal(t, map[models.Platform]int{
		models.PlatformTwitter:   2,
		models.PlatformInstagram: 1,
		models.PlatformFacebook:  2,
		models.PlatformLinkedIn:  3,
	}, in.PostsPerPlatform)
	assert.Equal(t, []models.ContentBucket{
		{Type: BucketTextOnly, Count: 2},
		{Type: BucketWithMedia, Count: 2},
		{Type: BucketMultiPlatform, Count: 3},
		{Type: BucketSinglePlatform, Count: 1},
	}, in.ContentPerformance)
}

func TestAnalyticsService_Platform(t *testing.T) {
	svc := newTestAnalytics(t, nil)

	d, err := svc.Platform(context.Background(), models.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, 4000, d.Followers)

	_, err = svc.Platform(context.Background(), "myspace")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
