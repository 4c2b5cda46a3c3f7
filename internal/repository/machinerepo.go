package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/kmalygin/machine-vault/internal/model"
)

// MachineRepository provides persistence for theoretical machine records.
// Every operation is scoped to the owning user; ownership is enforced purely
// by that scoping, there is no separate ACL check.
type MachineRepository interface {
	// Create inserts a machine in compact form and returns the new record id.
	Create(ctx context.Context, userID uuid.UUID, name, compact string) (int64, error)
	// GetAllByUser returns all machines of the user in compact form.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]model.StoredMachine, error)
	// Exists reports whether a machine with the given id belongs to the user.
	Exists(ctx context.Context, userID uuid.UUID, id int64) (bool, error)
	// Update replaces name and compact form of the user's machine.
	// Returns errs.ErrNotFound if no row matched.
	Update(ctx context.Context, userID uuid.UUID, id int64, name, compact string) error
	// Delete removes the user's machine. Returns errs.ErrNotFound if no row
	// matched.
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}
