package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/credo/api/internal/core/domain"
	"github.com/credo/api/internal/core/ports"
)

type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

type tokenClaims struct {
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens for one purpose. Construct
// one instance per purpose with independent secret material so that an
// access token can never pass as a refresh token or the reverse. Instances
// hold no mutable state and are safe for concurrent use.
type TokenService struct {
	purpose TokenPurpose
	secret  []byte
	ttl     time.Duration
}

func NewTokenService(purpose TokenPurpose, secret []byte, ttl time.Duration) (*TokenService, error) {
	if purpose != PurposeAccess && purpose != PurposeRefresh {
		return nil, fmt.Errorf("unknown token purpose %q", purpose)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("%s token secret is empty", purpose)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%s token ttl must be positive", purpose)
	}
	return &TokenService{purpose: purpose, secret: secret, ttl: ttl}, nil
}

func (s *TokenService) Issue(subject uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	// The jti claim keeps token strings unique even when two are minted for
	// the same subject within the same second.
	claims := tokenClaims{
		Purpose: s.purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", s.purpose, err)
	}
	return token, expiresAt, nil
}

func (s *TokenService) Verify(tokenStr string) (uuid.UUID, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &tokenClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, mapJWTError(err)
	}
	if !token.Valid {
		return uuid.Nil, domain.ErrTokenMalformed
	}
	// Belt over the independent secrets: a purpose mismatch means the token
	// was minted by the wrong signing context.
	if claims.Purpose != s.purpose {
		return uuid.Nil, domain.ErrTokenSignatureInvalid
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenMalformed
	}
	return subject, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	default:
		return fmt.Errorf("token verification failed: %w", err)
	}
}

var _ ports.TokenSigner = (*TokenService)(nil)
