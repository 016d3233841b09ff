package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record backing a long-lived session. The
// token string is unique system-wide; a user may hold several records at
// once (one per sign-in). Invalidation is one-way: once set, the record
// never authorizes a refresh again.
type RefreshToken struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Token       string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	Invalidated bool      `json:"invalidated"`
	CreatedAt   time.Time `json:"created_at"`
}

// Active reports whether the record may still authorize a refresh at the
// given instant. Expiry is derived here, never stored.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Invalidated && now.Before(t.ExpiresAt)
}
