package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenPurpose tags an ephemeral token with the single flow it may serve.
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

// EphemeralTokenStore persists single-use, purpose-tagged tokens. At most one
// unconsumed token per (user, purpose) exists at any time; Create removes any
// predecessor in the same operation.
type EphemeralTokenStore interface {
	Create(ctx context.Context, token EphemeralToken) error
	GetByHash(ctx context.Context, tokenHash []byte, purpose TokenPurpose) (EphemeralToken, error)
	// Consume marks the token used and returns its record in one atomic step.
	// A token that is absent or already consumed yields ErrNotFound.
	Consume(ctx context.Context, tokenHash []byte, purpose TokenPurpose, now time.Time) (EphemeralToken, error)
	Clear(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) error
}

// EphemeralToken describes a stored single-use token record.
type EphemeralToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  []byte
	Purpose    TokenPurpose
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
