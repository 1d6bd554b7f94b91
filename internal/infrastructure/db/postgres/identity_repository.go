package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

// IdentityRepository implements ports.AuthRepository on the users table.
type IdentityRepository struct {
	db querier
}

func NewIdentityRepository(db querier) ports.AuthRepository {
	return &IdentityRepository{db: db}
}

// FindByEmail retrieves a user by email.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError("select users", err)
	}
	return &u, nil
}

// Create inserts a user; the id is assigned by the store.
func (r *IdentityRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := *user
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, user.Email, user.Name, user.Role, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err := row.Scan(&created.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storeError("insert users", err)
	}
	return &created, nil
}

// Delete removes a user by id. Deleting a missing user is not an error.
func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return storeError("delete users", err)
	}
	return nil
}
