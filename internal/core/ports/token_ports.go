package ports

import (
	"time"

	"github.com/google/uuid"
)

// TokenSigner mints and verifies signed, time-bound tokens for a single
// purpose. The auth service holds two instances, one per token purpose,
// each with its own secret and lifetime; a token issued by one instance
// fails verification by the other.
type TokenSigner interface {
	Issue(subject uuid.UUID) (token string, expiresAt time.Time, err error)
	Verify(token string) (uuid.UUID, error)
}
