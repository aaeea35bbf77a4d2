package repository

import (
	"context"

	"github.com/mediguide-ai/backend/internal/domain"
)

type UpsertVerifiedInput struct {
	Name  string
	Email string
	Phone string
	// PasswordHash, when nil, leaves any previously stored credential
	// untouched.
	PasswordHash *string
}

type UserRepository interface {
	// UpsertVerified inserts the user or, on email conflict, updates
	// name/phone and forces is_verified=true. Verified status is never
	// downgraded.
	UpsertVerified(ctx context.Context, input UpsertVerifiedInput) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
