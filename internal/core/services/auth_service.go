package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/credo/api/internal/core/domain"
	"github.com/credo/api/internal/core/ports"
)

// dummyHash is a fixed bcrypt hash compared against when the user does not
// exist, so that sign-in costs the same either way. A match against it never
// authenticates: the nil-user check below still rejects the attempt.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type AuthService struct {
	userRepo      ports.UserRepository
	refreshRepo   ports.RefreshTokenRepository
	accessSigner  ports.TokenSigner
	refreshSigner ports.TokenSigner
	mailer        ports.Mailer
	logger        *slog.Logger
}

func NewAuthService(
	userRepo ports.UserRepository,
	refreshRepo ports.RefreshTokenRepository,
	accessSigner ports.TokenSigner,
	refreshSigner ports.TokenSigner,
	mailer ports.Mailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		refreshRepo:   refreshRepo,
		accessSigner:  accessSigner,
		refreshSigner: refreshSigner,
		mailer:        mailer,
		logger:        logger,
	}
}

// SignUp creates the user record and hands off to the mailer. Registration
// policy (email format, password strength) belongs to callers.
func (s *AuthService) SignUp(ctx context.Context, email, password string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendConfirmationEmail(ctx, user.ID, user.Email); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// SignIn verifies the password and returns a new access/refresh token pair.
// The refresh record is durably persisted before the tokens are returned.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	storedHash := dummyHash
	if user != nil && len(user.PasswordHash) > 0 {
		storedHash = user.PasswordHash
	}
	if bcrypt.CompareHashAndPassword(storedHash, []byte(password)) != nil || user == nil {
		return "", "", domain.ErrUnauthorized
	}

	accessToken, _, err := s.accessSigner.Issue(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.refreshSigner.Issue(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue refresh token: %w", err)
	}

	record := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpiresAt,
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID)
	return accessToken, refreshToken, nil
}

// Logout marks the refresh record invalidated. It is best-effort: a token
// that never existed, was already invalidated, or belongs to another user
// leaves the ledger untouched and still returns success.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if _, err := s.refreshRepo.Invalidate(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	return nil
}

// RefreshAccessToken validates the stored refresh record and mints a new
// access token. The refresh token itself is not rotated. Invalidated,
// expired, unknown, and foreign-owned records are all rejected uniformly.
func (s *AuthService) RefreshAccessToken(ctx context.Context, userID uuid.UUID, token string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}

	record, err := s.refreshRepo.GetByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if record == nil || record.UserID != user.ID || !record.Active(time.Now()) {
		return "", domain.ErrUnauthorized
	}

	accessToken, _, err := s.accessSigner.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return accessToken, nil
}

var _ ports.AuthService = (*AuthService)(nil)
