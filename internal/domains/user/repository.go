package user

import (
	"context"
)

// Repository is the data access contract of the user store
type Repository interface {
	// Create assigns ID and CreatedAt.
	// Returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when absent
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail returns ErrUserNotFound when absent
	FindByEmail(ctx context.Context, email string) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
