package repository

import (
	"context"

	"socialautomator/internal/models"
)

// ManagedUserRepository serves the admin user-management records. Admin
// actions are log-only, so the records never change.
type ManagedUserRepository interface {
	List(ctx context.Context) ([]*models.ManagedUser, error)
	GetByID(ctx context.Context, id string) (*models.ManagedUser, error)
}

type managedUserRepository struct {
	records []*models.ManagedUser
}

// NewManagedUserRepository returns a ManagedUserRepository over records.
func NewManagedUserRepository(records []*models.ManagedUser) ManagedUserRepository {
	return &managedUserRepository{records: records}
}

func (r *managedUserRepository) List(_ context.Context) ([]*models.ManagedUser, error) {
	out := make([]*models.ManagedUser, 0, len(r.records))
	for _, m := range r.records {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *managedUserRepository) GetByID(_ context.Context, id string) (*models.ManagedUser, error) {
	for _, m := range r.records {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("Managed user", id)
}
