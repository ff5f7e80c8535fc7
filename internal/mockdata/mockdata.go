// Package mockdata builds the fixed and generated records the application
// serves. Everything is produced once per process from a seed; nothing here
// is recomputed afterwards.
package mockdata

import (
	"fmt"
	"sort"
	"time"

	"socialautomator/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

const day = 24 * time.Hour

// TimelineDays is the number of days back the timeline reaches; the series
// holds TimelineDays+1 points ending today.
const TimelineDays = 30

// ManagedUserCount is the number of admin user-management records.
const ManagedUserCount = 10

// Dataset is the full snapshot of mock application state.
type Dataset struct {
	Users         []*models.User
	Posts         []*models.Post
	Notifications []*models.Notification
	Analytics     map[models.Platform]*models.AnalyticsData
	Timeline      []models.TimelinePoint
	ManagedUsers  []*models.ManagedUser
	Activity      []*models.ActivityEntry
}

// Generate builds a Dataset relative to now. A seed of 0 picks a random one.
func Generate(now time.Time, seed int64) *Dataset {
	faker := gofakeit.New(seed)

	ds := &Dataset{
		Users:         Users(),
		Posts:         Posts(now),
		Notifications: Notifications(now),
		Activity:      Activity(now),
	}
	ds.Analytics = analytics(faker, ds.Posts)
	ds.Timeline = timeline(faker, now, TimelineDays)
	ds.ManagedUsers = managedUsers(faker, now)
	return ds
}

// Users returns the two accounts that can sign in.
func Users() []*models.User {
	return []*models.User{
		{
			ID:     "1",
			Name:   "Alex Johnson",
			Email:  "user@example.com",
			Role:   models.RoleUser,
			Avatar: "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150",
		},
		{
			ID:     "2",
			Name:   "Sam Wilson",
			Email:  "admin@example.com",
			Role:   models.RoleAdmin,
			Avatar: "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg?auto=compress&cs=tinysrgb&w=150",
		},
	}
}

// Posts returns the seed post list. Stores list it by creation time, newest first.
func Posts(now time.Time) []*models.Post {
	tomorrow := now.Add(day)
	return []*models.Post{
		{
			ID:           "1",
			Content:      "Excited to announce our new product launch! #innovation #tech",
			Platforms:    []models.Platform{models.PlatformTwitter, models.PlatformLinkedIn},
			Media:        []string{"https://images.pexels.com/photos/3943746/pexels-photo-3943746.jpeg?auto=compress&cs=tinysrgb&w=500"},
			ScheduledFor: &tomorrow,
			Status:       models.PostStatusScheduled,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:         "2",
			Content:    "Check out our latest blog post on social media strategy",
			Platforms:  []models.Platform{models.PlatformFacebook, models.PlatformTwitter, models.PlatformLinkedIn},
			Status:     models.PostStatusPublished,
			Engagement: models.Engagement{Likes: 127, Shares: 42, Comments: 18, Impressions: 2430},
			CreatedAt:  now.Add(-3 * day),
			UpdatedAt:  now.Add(-3 * day),
		},
		{
			ID:         "3",
			Content:    "Happy Friday everyone! What are your weekend plans?",
			Platforms:  []models.Platform{models.PlatformInstagram, models.PlatformFacebook},
			Media:      []string{"https://images.pexels.com/photos/5409751/pexels-photo-5409751.jpeg?auto=compress&cs=tinysrgb&w=500"},
			Status:     models.PostStatusPublished,
			Engagement: models.Engagement{Likes: 342, Shares: 21, Comments: 47, Impressions: 3245},
			CreatedAt:  now.Add(-2 * day),
			UpdatedAt:  now.Add(-2 * day),
		},
		{
			ID:        "4",
			Content:   "Draft post about upcoming industry trends",
			Platforms: []models.Platform{models.PlatformLinkedIn},
			Status:    models.PostStatusDraft,
			CreatedAt: now.Add(-day),
			UpdatedAt: now.Add(-day),
		},
	}
}

// Notifications returns the read-only notification list, newest first.
func Notifications(now time.Time) []*models.Notification {
	return []*models.Notification{
		{ID: "1", Message: "Your post has been published successfully", Type: models.NotificationSuccess, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Message: "Your LinkedIn post received 50+ likes", Type: models.NotificationInfo, CreatedAt: now.Add(-12 * time.Hour)},
		{ID: "3", Message: "Failed to schedule post on Twitter", Type: models.NotificationError, Read: true, CreatedAt: now.Add(-2 * day)},
	}
}

// Activity returns the seed activity log, newest first.
func Activity(now time.Time) []*models.ActivityEntry {
	return []*models.ActivityEntry{
		{ID: "1", UserID: "user1", Action: models.ActionLogin, Timestamp: now.Add(-time.Hour), Details: "User logged in from Chrome on Windows"},
		{ID: "2", UserID: "user2", Action: models.ActionPostCreate, Timestamp: now.Add(-2 * time.Hour), Details: `Created new post "Launch announcement" for Twitter and LinkedIn`},
		{ID: "3", UserID: "user3", Action: models.ActionSettingsUpdate, Timestamp: now.Add(-3 * time.Hour), Details: "Updated notification preferences"},
	}
}

func analytics(faker *gofakeit.Faker, posts []*models.Post) map[models.Platform]*models.AnalyticsData {
	out := make(map[models.Platform]*models.AnalyticsData, len(models.Platforms))
	for _, p := range models.Platforms {
		out[p] = &models.AnalyticsData{
			Platform:    p,
			Followers:   faker.IntRange(1000, 10999),
			Engagement:  faker.Float64Range(1, 6),
			Impressions: faker.IntRange(5000, 54999),
			Growth:      faker.Float64Range(-5, 10),
			RecentPosts: recentPublished(posts, p, 3),
		}
	}
	return out
}

func recentPublished(posts []*models.Post, platform models.Platform, limit int) []*models.Post {
	byAge := make([]*models.Post, len(posts))
	copy(byAge, posts)
	sort.SliceStable(byAge, func(i, j int) bool {
		return byAge[i].CreatedAt.After(byAge[j].CreatedAt)
	})

	out := make([]*models.Post, 0, limit)
	for _, post := range byAge {
		if len(out) == limit {
			break
		}
		if post.Status == models.PostStatusPublished && post.HasPlatform(platform) {
			out = append(out, post.Clone())
		}
	}
	return out
}

func timeline(faker *gofakeit.Faker, now time.Time, days int) []models.TimelinePoint {
	points := make([]models.TimelinePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		points = append(points, models.TimelinePoint{
			Date:      now.Add(-time.Duration(i) * day).UTC().Format("2006-01-02"),
			Twitter:   faker.IntRange(100, 599),
			Instagram: faker.IntRange(200, 999),
			Facebook:  faker.IntRange(150, 749),
			LinkedIn:  faker.IntRange(50, 449),
		})
	}
	return points
}

func managedUsers(faker *gofakeit.Faker, now time.Time) []*models.ManagedUser {
	out := make([]*models.ManagedUser, 0, ManagedUserCount)
	for i := 0; i < ManagedUserCount; i++ {
		role := models.RoleUser
		if i < 2 {
			role = models.RoleAdmin
		}
		status := models.AccountActive
		if i >= 8 {
			status = models.AccountInactive
		}
		out = append(out, &models.ManagedUser{
			ID:         fmt.Sprintf("user-%d", i+3),
			Name:       fmt.Sprintf("User %d", i+1),
			Email:      fmt.Sprintf("user%d@example.com", i+1),
			Role:       role,
			Status:     status,
			PostsCount: faker.IntRange(0, 49),
			LastActive: now.Add(-time.Duration(faker.IntRange(0, 29)) * day),
		})
	}
	return out
}
