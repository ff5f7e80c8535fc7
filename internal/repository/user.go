package repository

import (
	"context"
	"strings"

	"socialautomator/internal/models"
)

// UserRepository looks up the accounts that can sign in. The set is fixed
// for the life of the process.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type userRepository struct {
	users []*models.User
}

// NewUserRepository returns a UserRepository over users.
func NewUserRepository(users []*models.User) UserRepository {
	return &userRepository{users: users}
}

func (r *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}

// GetByEmail matches case-insensitively, ignoring surrounding space.
func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}

func (r *userRepository) List(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}
