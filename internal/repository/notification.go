package repository

import (
	"context"
	"sort"

	"socialautomator/internal/models"
)

// NotificationRepository is the read-only notification feed.
type NotificationRepository interface {
	List(ctx context.Context) ([]*models.Notification, error)
}

type notificationRepository struct {
	items []*models.Notification
}

// NewNotificationRepository returns the feed over items.
func NewNotificationRepository(items []*models.Notification) NotificationRepository {
	return &notificationRepository{items: items}
}

// List returns notifications newest first.
func (r *notificationRepository) List(_ context.Context) ([]*models.Notification, error) {
	out := make([]*models.Notification, 0, len(r.items))
	for _, n := range r.items {
		cp := *n
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
