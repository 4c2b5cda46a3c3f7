// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/kmalygin/machine-vault/internal/model"
)

// UserRepository provides persistence for user credentials.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists if the email
	// is already taken.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail loads a user by email. Returns errs.ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateCredentials replaces the name and password representation of the
	// user identified by email. Returns errs.ErrNotFound if no row matched.
	UpdateCredentials(ctx context.Context, email, name, passwordHash string) error
	// GetIDByEmail resolves the owner id for an email.
	// Returns errs.ErrNotFound if absent.
	GetIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
}
