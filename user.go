package spacedock

import (
	"context"

	"github.com/spacedock/spacedock/kit/platform"
)

// User is a user. 🎉
type User struct {
	ID     platform.ID `json:"id,omitempty"`
	Name   string      `json:"name"`
	Status string      `json:"status,omitempty"`

	CRUDLog
}

// UserService represents a service for managing user data.
type UserService interface {
	// FindUserByID returns a single user by ID.
	FindUserByID(ctx context.Context, id platform.ID) (*User, error)

	// FindUser returns the user matching the name.
	FindUser(ctx context.Context, name string) (*User, error)

	// CreateUser creates a new user and sets u.ID with the new identifier.
	CreateUser(ctx context.Context, u *User) error
}
