package repository

import (
	"context"
	"strconv"
	"sync"

	"socialautomator/internal/models"
)

// DefaultActivityLimit is the number of activity entries retained.
const DefaultActivityLimit = 200

// ActivityRepository is the bounded admin activity log.
type ActivityRepository interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
	List(ctx context.Context, limit int) ([]*models.ActivityEntry, error)
}

type memoryActivityRepository struct {
	mu      sync.RWMutex
	entries []*models.ActivityEntry // newest first
	limit   int
	nextID  int
}

// NewActivityRepository returns a log seeded with entries (newest first)
// that keeps at most limit entries.
func NewActivityRepository(seed []*models.ActivityEntry, limit int) ActivityRepository {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	r := &memoryActivityRepository{limit: limit}
	for _, e := range seed {
		cp := *e
		r.entries = append(r.entries, &cp)
		if n, err := strconv.Atoi(e.ID); err == nil && n > r.nextID {
			r.nextID = n
		}
	}
	r.trim()
	return r
}

func (r *memoryActivityRepository) trim() {
	if len(r.entries) > r.limit {
		r.entries = r.entries[:r.limit]
	}
}

// Append assigns the next sequential id when entry has none.
func (r *memoryActivityRepository) Append(_ context.Context, entry *models.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *entry
	if cp.ID == "" {
		r.nextID++
		cp.ID = strconv.Itoa(r.nextID)
		entry.ID = cp.ID
	}
	r.entries = append([]*models.ActivityEntry{&cp}, r.entries...)
	r.trim()
	return nil
}

// List returns up to limit newest entries; limit <= 0 returns all.
func (r *memoryActivityRepository) List(_ context.Context, limit int) ([]*models.ActivityEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*models.ActivityEntry, 0, n)
	for _, e := range r.entries[:n] {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}
