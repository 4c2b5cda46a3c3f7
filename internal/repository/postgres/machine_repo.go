package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/kmalygin/machine-vault/internal/errs"
	"github.com/kmalygin/machine-vault/internal/model"
)

// MachineRepo implements repository.MachineRepository using PostgreSQL.
// All queries are scoped by user_id.
type MachineRepo struct{ db *DB }

// NewMachineRepo constructs a machine repository.
func NewMachineRepo(db *DB) *MachineRepo { return &MachineRepo{db: db} }

// Create inserts a machine row and returns the generated id.
func (r *MachineRepo) Create(ctx context.Context, userID uuid.UUID, name, compact string) (int64, error) {
	const q = `
INSERT INTO theoretical_machines (user_id, name, machine)
VALUES ($1, $2, $3)
RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, userID, name, compact).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetAllByUser returns all machines of the user, oldest first.
func (r *MachineRepo) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]model.StoredMachine, error) {
	const q = `
SELECT id, name, machine
FROM theoretical_machines
WHERE user_id=$1
ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var machines []model.StoredMachine
	for rows.Next() {
		var m model.StoredMachine
		if err := rows.Scan(&m.ID, &m.Name, &m.Machine); err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

// Exists reports whether the machine belongs to the user.
func (r *MachineRepo) Exists(ctx context.Context, userID uuid.UUID, id int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM theoretical_machines WHERE user_id=$1 AND id=$2)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, userID, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update replaces name and compact form of the user's machine.
func (r *MachineRepo) Update(ctx context.Context, userID uuid.UUID, id int64, name, compact string) error {
	const q = `
UPDATE theoretical_machines
SET name = $3, machine = $4
WHERE user_id = $1 AND id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, id, name, compact)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the user's machine.
func (r *MachineRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	const q = `DELETE FROM theoretical_machines WHERE user_id = $1 AND id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
