package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// UserRepository persists user accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a user repository over the pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns the user.
func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var (
		user   domain.User
		userID uuid.UUID
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, staff, created_at, updated_at
		FROM users WHERE id = $1`,
		id.UUID,
	).Scan(&userID, &user.Email, &user.Name, &user.Staff, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	user.ID = domain.NewUserID(userID)
	return &user, nil
}

// Update rewrites the mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET email = $2, name = $3, updated_at = $4 WHERE id = $1`,
		user.ID.UUID, user.Email, user.Name, user.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

// Delete removes the account.
func (r *UserRepository) Delete(ctx context.Context, id domain.UserID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.UUID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
