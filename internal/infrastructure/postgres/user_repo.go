package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediguide-ai/backend/internal/domain"
	"github.com/mediguide-ai/backend/internal/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// UpsertVerified keys on the email unique constraint. COALESCE keeps an
// existing password hash when the caller supplies none, so re-verifying
// never wipes a credential.
func (r *UserRepository) UpsertVerified(ctx context.Context, input repository.UpsertVerifiedInput) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, phone, password, is_verified)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			password = COALESCE(EXCLUDED.password, users.password),
			is_verified = true,
			updated_at = NOW()
		RETURNING id, name, email, phone, password, is_verified, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, input.Name, input.Email, input.Phone, input.PasswordHash)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, password, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1`

	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, password, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
