package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"socialautomator/internal/cache"
	"socialautomator/internal/models"
	"socialautomator/internal/repository"
)

// Timeline window bounds, in points.
const (
	DefaultTimelineDays = 7
	MaxTimelineDays     = 31
)

// Content-performance bucket names.
const (
	BucketTextOnly       = "Text only"
	BucketWithMedia      = "With media"
	BucketMultiPlatform  = "Multi-platform"
	BucketSinglePlatform = "Single platform"
)

// AnalyticsService serves the analytics generated at load time. Figures are
// never recomputed from the post list, except for content insights.
type AnalyticsService struct {
	data     map[models.Platform]*models.AnalyticsData
	timeline []models.TimelinePoint
	posts    repository.PostRepository
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewAnalyticsService(
	data map[models.Platform]*models.AnalyticsData,
	timeline []models.TimelinePoint,
	posts repository.PostRepository,
	c *cache.Cache,
	cacheTTL time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		data:     data,
		timeline: timeline,
		posts:    posts,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// Overview totals and averages the per-platform figures.
func (s *AnalyticsService) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	var out models.AnalyticsOverview
	err := s.cache.Aside(ctx, cache.AnalyticsOverviewKey, &out, s.cacheTTL, func() error {
		out = *s.overview()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AnalyticsService) overview() *models.AnalyticsOverview {
	out := &models.AnalyticsOverview{
		Platforms:      make([]*models.AnalyticsData, 0, len(s.data)),
		RecentTimeline: s.lastPoints(DefaultTimelineDays),
	}
	for _, d := range s.data {
		out.Platforms = append(out.Platforms, d)
		out.TotalFollowers += d.Followers
		out.TotalImpressions += d.Impressions
		out.AvgEngagement += d.Engagement
		out.AvgGrowth += d.Growth
	}
	if n := len(s.data); n > 0 {
		out.AvgEngagement /= float64(n)
		out.AvgGrowth /= float64(n)
	}
	out.ActivePlatforms = len(s.data)
	sort.Slice(out.Platforms, func(i, j int) bool {
		return out.Platforms[i].Platform < out.Platforms[j].Platform
	})
	return out
}

// Timeline returns the last days points; zero means the default window.
func (s *AnalyticsService) Timeline(_ context.Context, days int) ([]models.TimelinePoint, error) {
	if days == 0 {
		days = DefaultTimelineDays
	}
	if days < 1 || days > MaxTimelineDays {
		return nil, models.NewValidationError(fmt.Sprintf("days must be between 1 and %d", MaxTimelineDays))
	}
	return s.lastPoints(days), nil
}

func (s *AnalyticsService) lastPoints(n int) []models.TimelinePoint {
	if n > len(s.timeline) {
		n = len(s.timeline)
	}
	out := make([]models.TimelinePoint, n)
	copy(out, s.timeline[len(s.timeline)-n:])
	return out
}

// Platform returns the figures for one platform.
func (s *AnalyticsService) Platform(_ context.Context, p models.Platform) (*models.AnalyticsData, error) {
	d, ok := s.data[p]
	if !ok {
		return nil, models.NewNotFoundError("Platform", p)
	}
	return d, nil
}

// ContentInsights summarizes the current post list.
func (s *AnalyticsService) ContentInsights(ctx context.Context) (*models.ContentInsights, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	perPlatform := make(map[models.Platform]int, len(models.Platforms))
	for _, p := range models.Platforms {
		perPlatform[p] = 0
	}
	var textOnly, withMedia, multi, single int
	for _, post := range posts {
		for _, p := range post.Platforms {
			perPlatform[p]++
		}
		if post.HasMedia() {
			withMedia++
		} else {
			textOnly++
		}
		switch n := len(post.Platforms); {
		case n > 1:
			multi++
		case n == 1:
			single++
		}
	}

	return &models.ContentInsights{
		TotalPosts:       len(posts),
		PostsPerPlatform: perPlatform,
		ContentPerformance: []models.ContentBucket{
			{Type: BucketTextOnly, Count: textOnly},
			{Type: BucketWithMedia, Count: withMedia},
			{Type: BucketMultiPlatform, Count: multi},
			{Type: BucketSinglePlatform, Count: single},
		},
	}, nil
}
