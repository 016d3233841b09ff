package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/credo/api/internal/core/domain"
)

// UserRepository is the credential store. Lookups return (nil, nil) when no
// matching user exists.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
