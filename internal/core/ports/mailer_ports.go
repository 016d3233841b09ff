package ports

import (
	"context"

	"github.com/google/uuid"
)

type Mailer interface {
	SendConfirmationEmail(ctx context.Context, userID uuid.UUID, email string) error
}
