package models

import "time"

// Platform identifies a social network a post can target.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformTwitter, PlatformInstagram, PlatformFacebook, PlatformLinkedIn}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// PostStatus is the lifecycle label of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusFailed:
		return true
	}
	return false
}

// Engagement holds the interaction counters of a post.
type Engagement struct {
	Likes       int `json:"likes"`
	Shares      int `json:"shares"`
	Comments    int `json:"comments"`
	Impressions int `json:"impressions"`
}

// Total is likes + comments + shares. Impressions are not engagement.
func (e Engagement) Total() int {
	return e.Likes + e.Comments + e.Shares
}

// Post represents a composed social-media post.
type Post struct {
	ID           string     `gorm:"primaryKey;size:32" json:"id"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Platforms    []Platform `gorm:"serializer:json" json:"platforms"`
	Media        []string   `gorm:"serializer:json" json:"media,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Status       PostStatus `gorm:"size:16;index;not null" json:"status"`
	Engagement   Engagement `gorm:"embedded;embeddedPrefix:engagement_" json:"engagement"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasPlatform reports whether the post targets p.
func (p *Post) HasPlatform(platform Platform) bool {
	for _, candidate := range p.Platforms {
		if candidate == platform {
			return true
		}
	}
	return false
}

// HasMedia reports whether the post carries at least one media URL.
func (p *Post) HasMedia() bool {
	return len(p.Media) > 0
}

// Clone returns a deep copy so callers cannot alias store-owned slices.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	out := *p
	out.Platforms = append([]Platform(nil), p.Platforms...)
	if p.Media != nil {
		out.Media = append([]string(nil), p.Media...)
	}
	if p.ScheduledFor != nil {
		t := *p.ScheduledFor
		out.ScheduledFor = &t
	}
	return &out
}
