package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/kmalygin/machine-vault/internal/errs"
	"github.com/kmalygin/machine-vault/internal/model"
)

// UserRepo implements repository.UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, name, email, password_hash, created_at
FROM users WHERE email=$1`
	row := r.db.Pool.QueryRow(ctx, q, email)
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateCredentials replaces name and password representation by email.
func (r *UserRepo) UpdateCredentials(ctx context.Context, email, name, passwordHash string) error {
	const q = `
UPDATE users
SET name = $2, password_hash = $3
WHERE email = $1`
	tag, err := r.db.Pool.Exec(ctx, q, email, name, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// GetIDByEmail resolves the owner id for an email.
func (r *UserRepo) GetIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	const q = `SELECT id FROM users WHERE email=$1`
	var id uuid.UUID
	if err := r.db.Pool.QueryRow(ctx, q, email).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, errs.ErrNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}
