// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"sort"
	"sync"

	"socialautomator/internal/models"
	"socialautomator/internal/observability"
)

// PostRepository defines the interface for post data operations.
// Lists are newest first; Create prepends.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// memoryPostRepository keeps posts in a slice guarded by a RWMutex.
type memoryPostRepository struct {
	mu    sync.RWMutex
	posts []*models.Post
	log   *observability.RepoLogger
}

// NewMemoryPostRepository returns a PostRepository seeded with posts. The
// seed is ordered like the SQL store: created_at descending, then id descending.
func NewMemoryPostRepository(seed []*models.Post) PostRepository {
	posts := make([]*models.Post, 0, len(seed))
	for _, p := range seed {
		posts = append(posts, p.Clone())
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return newerPost(posts[i], posts[j])
	})
	return &memoryPostRepository{posts: posts, log: observability.NewRepoLogger("posts")}
}

// newerPost reports whether a lists before b.
func newerPost(a, b *models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (r *memoryPostRepository) List(_ context.Context) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *memoryPostRepository) indexOf(id string) int {
	for i, p := range r.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryPostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	return r.posts[i].Clone(), nil
}

func (r *memoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(post.ID) >= 0 {
		return models.NewValidationError("post with ID " + post.ID + " already exists")
	}
	r.posts = append([]*models.Post{post.Clone()}, r.posts...)
	r.log.LogCreate(ctx, map[string]any{"id": post.ID, "status": post.Status})
	return nil
}

func (r *memoryPostRepository) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(post.ID)
	if i < 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	r.posts[i] = post.Clone()
	r.log.LogUpdate(ctx, map[string]any{"id": post.ID, "status": post.Status})
	return nil
}

func (r *memoryPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.posts = append(r.posts[:i:i], r.posts[i+1:]...)
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}
