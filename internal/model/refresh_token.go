package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists refresh token records. Only a hash of the token
// value is ever stored; the raw value leaves the process exactly once, at
// issue time.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByHash(ctx context.Context, tokenHash []byte) (RefreshToken, error)
	Revoke(ctx context.Context, tokenHash []byte) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken describes a stored refresh token record.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the record may still mint new access tokens.
func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
