// Package notification delivers verification and password reset emails
// through an SMTP relay.
package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

// SMTP implements model.Notifier over a plain SMTP relay.
type SMTP struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTP creates a notifier for the given relay. user may be empty for
// relays without authentication.
func NewSMTP(host string, port int, user, pass, from string) *SMTP {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTP{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

var _ model.Notifier = (*SMTP)(nil)

func (s *SMTP) SendVerificationEmail(ctx context.Context, to, link, displayName string) error {
	body := fmt.Sprintf(
		"%s\r\n\r\nPlease confirm your email address by opening the link below:\r\n\r\n%s\r\n\r\nThe link is valid for 24 hours. If you did not create an account, ignore this message.\r\n",
		greeting(displayName), link,
	)
	return s.send(ctx, to, "Verify your email address", body)
}

func (s *SMTP) SendPasswordResetEmail(ctx context.Context, to, link, displayName string) error {
	body := fmt.Sprintf(
		"%s\r\n\r\nWe received a request to reset your password. Open the link below to choose a new one:\r\n\r\n%s\r\n\r\nThe link is valid for 1 hour. If you did not request a reset, ignore this message.\r\n",
		greeting(displayName), link,
	)
	return s.send(ctx, to, "Reset your password", body)
}

// send performs the SMTP exchange. The context is honored before dialing;
// net/smtp itself has no cancellation points once the exchange starts.
func (s *SMTP) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func greeting(displayName string) string {
	if displayName == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", displayName)
}
