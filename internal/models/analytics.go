package models

// AnalyticsData is the per-platform audience snapshot generated at load time.
type AnalyticsData struct {
	Platform    Platform `json:"platform"`
	Followers   int      `json:"followers"`
	Engagement  float64  `json:"engagement"`
	Impressions int      `json:"impressions"`
	Growth      float64  `json:"growth"`
	RecentPosts []*Post  `json:"recent_posts"`
}

// TimelinePoint is one day of per-platform engagement counts.
type TimelinePoint struct {
	Date      string `json:"date"`
	Twitter   int    `json:"twitter"`
	Instagram int    `json:"instagram"`
	Facebook  int    `json:"facebook"`
	LinkedIn  int    `json:"linkedin"`
}

// AnalyticsOverview aggregates AnalyticsData across platforms.
type AnalyticsOverview struct {
	TotalFollowers   int              `json:"total_followers"`
	AvgEngagement    float64          `json:"avg_engagement"`
	TotalImpressions int              `json:"total_impressions"`
	AvgGrowth        float64          `json:"avg_growth"`
	ActivePlatforms  int              `json:"active_platforms"`
	Platforms        []*AnalyticsData `json:"platforms"`
	RecentTimeline   []TimelinePoint  `json:"recent_timeline"`
}

// ContentBucket counts posts sharing a content shape.
type ContentBucket struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ContentInsights summarizes the current post list for administrators.
type ContentInsights struct {
	TotalPosts         int              `json:"total_posts"`
	PostsPerPlatform   map[Platform]int `json:"posts_per_platform"`
	ContentPerformance []ContentBucket  `json:"content_performance"`
}

// PostStats is the user dashboard summary of the post list.
type PostStats struct {
	Scheduled       int `json:"scheduled"`
	Published       int `json:"published"`
	Drafts          int `json:"drafts"`
	TotalEngagement int `json:"total_engagement"`
}
