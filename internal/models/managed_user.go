package models

import "time"

// AccountStatus is the administrative state of a managed account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// ManagedUser is a row of the admin user-management table. It is not joined to User.
type ManagedUser struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Role       Role          `json:"role"`
	Status     AccountStatus `json:"status"`
	PostsCount int           `json:"posts_count"`
	LastActive time.Time     `json:"last_active"`
}
