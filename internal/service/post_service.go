// Package service holds the application operations behind the HTTP handlers and the CLI.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"socialautomator/internal/events"
	"socialautomator/internal/models"
	"socialautomator/internal/observability"
	"socialautomator/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Layouts accepted for the schedule fields.
const (
	ScheduleDateLayout = "2006-01-02"
	ScheduleTimeLayout = "15:04"
)

type PostService struct {
	posts    repository.PostRepository
	activity repository.ActivityRepository
	emitter  *events.Emitter
	loc      *time.Location
	now      func() time.Time
	ids      *idSource
}

// ComposeInput is the composer form. The schedule applies only when both
// ScheduledDate and ScheduledTime are set.
type ComposeInput struct {
	Content       string            `json:"content"`
	Platforms     []models.Platform `json:"platforms"`
	Media         []string          `json:"media"`
	ScheduledDate string            `json:"scheduled_date"`
	ScheduledTime string            `json:"scheduled_time"`
}

type ListPostsInput struct {
	Status models.PostStatus
}

// NewPostService wires a PostService. A nil loc means UTC.
func NewPostService(
	posts repository.PostRepository,
	activity repository.ActivityRepository,
	emitter *events.Emitter,
	loc *time.Location,
) *PostService {
	if loc == nil {
		loc = time.UTC
	}
	s := &PostService{
		posts:    posts,
		activity: activity,
		emitter:  emitter,
		loc:      loc,
		now:      time.Now,
	}
	s.ids = newIDSource(func() time.Time { return s.now() })
	return s
}

type composed struct {
	content      string
	platforms    []models.Platform
	media        []string
	scheduledFor *time.Time
	status       models.PostStatus
}

func (s *PostService) validate(in ComposeInput) (*composed, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Post content is required")
	}
	if len(in.Platforms) == 0 {
		return nil, models.NewValidationError("Select at least one platform")
	}

	out := &composed{content: in.Content, status: models.PostStatusDraft}

	seen := make(map[models.Platform]bool, len(in.Platforms))
	for _, p := range in.Platforms {
		if !p.Valid() {
			return nil, models.NewValidationError(fmt.Sprintf("Unknown platform %q", p))
		}
		if !seen[p] {
			seen[p] = true
			out.platforms = append(out.platforms, p)
		}
	}

	for _, m := range in.Media {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		u, err := url.Parse(m)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, models.NewValidationError(fmt.Sprintf("Invalid media URL %q", m))
		}
		out.media = append(out.media, m)
	}

	date, clock := strings.TrimSpace(in.ScheduledDate), strings.TrimSpace(in.ScheduledTime)
	if date != "" && clock != "" {
		at, err := s.parseSchedule(date, clock)
		if err != nil {
			return nil, err
		}
		out.scheduledFor = &at
		out.status = models.PostStatusScheduled
	}
	return out, nil
}

func (s *PostService) parseSchedule(date, clock string) (time.Time, error) {
	layout := ScheduleDateLayout + "T" + ScheduleTimeLayout
	if strings.Count(clock, ":") == 2 {
		layout += ":05"
	}
	at, err := time.ParseInLocation(layout, date+"T"+clock, s.loc)
	if err != nil {
		return time.Time{}, models.NewValidationError("Invalid schedule date or time")
	}
	return at, nil
}

// Compose validates in and prepends a new post to the list.
func (s *PostService) Compose(ctx context.Context, actor *models.User, in ComposeInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Compose")
	defer func() { observability.EndSpan(span, err) }()

	c, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		ID:           s.ids.Next(),
		Content:      c.content,
		Platforms:    c.platforms,
		Media:        c.media,
		ScheduledFor: c.scheduledFor,
		Status:       c.status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsComposed.WithLabelValues(string(post.Status)).Inc()
	s.record(ctx, actor, models.ActionPostCreate, fmt.Sprintf("Created new post for %s", platformList(post.Platforms)))
	s.emitter.Emit(ctx, events.PostCreated, actorID(actor), post)
	return post, nil
}

// Replace swaps the editable fields of post id for in. Id, creation time and
// engagement are kept.
func (s *PostService) Replace(ctx context.Context, actor *models.User, id string, in ComposeInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Replace", attribute.String("post.id", id))
	defer func() { observability.EndSpan(span, err) }()

	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	existing.Content = c.content
	existing.Platforms = c.platforms
	existing.Media = c.media
	existing.ScheduledFor = c.scheduledFor
	existing.Status = c.status
	existing.UpdatedAt = s.now()

	if err := s.posts.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.record(ctx, actor, models.ActionPostUpdate, "Updated post "+id)
	s.emitter.Emit(ctx, events.PostUpdated, actorID(actor), existing)
	return existing, nil
}

// Delete removes exactly the post with id.
func (s *PostService) Delete(ctx context.Context, actor *models.User, id string) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Delete", attribute.String("post.id", id))
	defer func() { observability.EndSpan(span, err) }()

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, models.ActionPostDelete, "Deleted post "+id)
	s.emitter.Emit(ctx, events.PostDeleted, actorID(actor), map[string]string{"id": id})
	return nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// List returns posts newest first, optionally only those with in.Status.
func (s *PostService) List(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown post status %q", in.Status))
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		return posts, nil
	}
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status == in.Status {
			out = append(out, p)
		}
	}
	return out, nil
}

// Stats counts posts by status and sums engagement of published posts.
func (s *PostService) Stats(ctx context.Context) (*models.PostStats, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.PostStats{}
	for _, p := range posts {
		switch p.Status {
		case models.PostStatusScheduled:
			stats.Scheduled++
		case models.PostStatusPublished:
			stats.Published++
			stats.TotalEngagement += p.Engagement.Total()
		case models.PostStatusDraft:
			stats.Drafts++
		}
	}
	return stats, nil
}

func (s *PostService) record(ctx context.Context, actor *models.User, action models.ActivityAction, details string) {
	if s.activity == nil {
		return
	}
	entry := &models.ActivityEntry{
		UserID:    actorID(actor),
		Action:    action,
		Timestamp: s.now(),
		Details:   details,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to record activity",
			slog.String("action", string(action)), slog.String("error", err.Error()))
	}
}

func actorID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

var platformNames = map[models.Platform]string{
	models.PlatformTwitter:   "Twitter",
	models.PlatformInstagram: "Instagram",
	models.PlatformFacebook:  "Facebook",
	models.PlatformLinkedIn:  "LinkedIn",
}

func platformList(ps []models.Platform) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, platformNames[p])
	}
	switch len(names) {
	case 0:
		return "no platforms"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
