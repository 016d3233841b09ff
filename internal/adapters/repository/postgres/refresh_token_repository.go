package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/credo/api/internal/core/domain"
	"github.com/credo/api/internal/core/ports"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) ports.RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at, invalidated)
		VALUES ($1, $2, $3, false)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, token.UserID, token.Token, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, invalidated, created_at
		FROM refresh_tokens
		WHERE token = $1
	`
	record := &domain.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&record.ID,
		&record.UserID,
		&record.Token,
		&record.ExpiresAt,
		&record.Invalidated,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// Invalidate flips the invalidated flag in a single conditional statement.
// The compound predicate keeps one user from revoking another's token; the
// returned count lets callers distinguish a no-op if they care.
func (r *RefreshTokenRepository) Invalidate(ctx context.Context, userID uuid.UUID, token string) (int64, error) {
	query := `UPDATE refresh_tokens SET invalidated = true WHERE token = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
