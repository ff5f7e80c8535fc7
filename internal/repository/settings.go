package repository

import (
	"context"
	"sync"

	"socialautomator/internal/models"
	"socialautomator/internal/observability"
)

// SettingsRepository holds the single SystemSettings document.
type SettingsRepository interface {
	Get(ctx context.Context) (models.SystemSettings, error)
	Put(ctx context.Context, settings models.SystemSettings) error
}

type memorySettingsRepository struct {
	mu       sync.RWMutex
	settings models.SystemSettings
	log      *observability.RepoLogger
}

// NewSettingsRepository returns a store starting at initial.
func NewSettingsRepository(initial models.SystemSettings) SettingsRepository {
	return &memorySettingsRepository{settings: initial, log: observability.NewRepoLogger("settings")}
}

func (r *memorySettingsRepository) Get(_ context.Context) (models.SystemSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

func (r *memorySettingsRepository) Put(ctx context.Context, settings models.SystemSettings) error {
	r.mu.Lock()
	r.settings = settings
	r.mu.Unlock()
	r.log.LogUpdate(ctx, map[string]any{"max_posts_per_day": settings.MaxPostsPerDay})
	return nil
}
