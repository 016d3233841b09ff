package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/credo/api/internal/core/domain"
)

// RefreshTokenRepository is the refresh-token ledger. GetByToken returns
// (nil, nil) when no record matches. Invalidate matches both the token
// string and the owning user and reports how many rows it touched; calling
// it on an already-invalidated record succeeds and changes nothing.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Invalidate(ctx context.Context, userID uuid.UUID, token string) (int64, error)
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (string, string, error) // returns access_token, refresh_token, error
	Logout(ctx context.Context, userID uuid.UUID, token string) error
	RefreshAccessToken(ctx context.Context, userID uuid.UUID, token string) (string, error)
}
