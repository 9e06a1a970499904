package model

import "context"

// Notifier delivers verification and reset links by email. Implementations
// are best-effort collaborators: the auth flows log delivery failures but
// never fail on them.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, link, displayName string) error
	SendPasswordResetEmail(ctx context.Context, to, link, displayName string) error
}
