// Package smtp sends transactional mail over plain SMTP. Deliverability,
// retry, and templating are out of scope; the server only needs the
// confirmation hand-off to have completed.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/google/uuid"

	"github.com/credo/api/internal/core/ports"
)

type Mailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	baseURL string
}

func NewMailer(host string, port int, email, password, confirmationBaseURL string) *Mailer {
	return &Mailer{
		addr:    fmt.Sprintf("%s:%d", host, port),
		auth:    smtp.PlainAuth("", email, password, host),
		from:    email,
		baseURL: confirmationBaseURL,
	}
}

func (m *Mailer) SendConfirmationEmail(ctx context.Context, userID uuid.UUID, email string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirmation Email\r\n\r\n"+
			"Please confirm your email by clicking the following link: %s/confirmation-tokens/confirm-email?user=%s\r\n",
		m.from, email, m.baseURL, userID,
	)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

var _ ports.Mailer = (*Mailer)(nil)
