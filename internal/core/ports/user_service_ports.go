package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/credo/api/internal/core/domain"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
