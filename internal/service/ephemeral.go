package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// Ephemeral manages single-use, purpose-tagged tokens for email verification
// and password reset.
type Ephemeral struct {
	store  model.EphemeralTokenStore
	tx     model.TxManager
	logger *logger.Logger
	now    func() time.Time
}

// EphemeralOption configures an Ephemeral service.
type EphemeralOption func(*Ephemeral)

// WithEphemeralClock replaces the wall clock, for tests.
func WithEphemeralClock(now func() time.Time) EphemeralOption {
	return func(s *Ephemeral) { s.now = now }
}

func NewEphemeral(store model.EphemeralTokenStore, tx model.TxManager, logger *logger.Logger, opts ...EphemeralOption) *Ephemeral {
	s := &Ephemeral{store: store, tx: tx, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a fresh token for (user, purpose) and returns its raw value.
// Any unconsumed predecessor of the same purpose is invalidated in the same
// transaction, so two concurrently issued tokens can never both be live.
func (s *Ephemeral) Issue(ctx context.Context, userID uuid.UUID, purpose model.TokenPurpose, ttl time.Duration) (string, error) {
	raw, err := newTokenValue()
	if err != nil {
		return "", err
	}

	now := s.now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, model.EphemeralToken{
			ID:        uuid.New(),
			UserID:    userID,
			TokenHash: hashToken(raw),
			Purpose:   purpose,
			ExpiresAt: now.Add(ttl),
		})
	})
	if err != nil {
		return "", fmt.Errorf("persist ephemeral token: %w", err)
	}

	return raw, nil
}

// Consume validates the token and marks it used in one atomic step. A token
// that was already consumed reports ErrNotFound, never success twice.
func (s *Ephemeral) Consume(ctx context.Context, raw string, purpose model.TokenPurpose) (uuid.UUID, error) {
	et, err := s.store.Consume(ctx, hashToken(raw), purpose, s.now())
	if err != nil {
		return uuid.Nil, err
	}
	return et.UserID, nil
}

// Peek validates the token without consuming it, so a client can check
// whether a reset link is still usable before showing the form.
func (s *Ephemeral) Peek(ctx context.Context, raw string, purpose model.TokenPurpose) (uuid.UUID, error) {
	et, err := s.store.GetByHash(ctx, hashToken(raw), purpose)
	if err != nil {
		return uuid.Nil, err
	}
	if et.ConsumedAt != nil {
		return uuid.Nil, model.ErrNotFound
	}
	if s.now().After(et.ExpiresAt) {
		return uuid.Nil, model.ErrTokenExpired
	}
	return et.UserID, nil
}

// Clear removes every token of the given purpose for the user. Used once a
// password reset has actually been applied.
func (s *Ephemeral) Clear(ctx context.Context, userID uuid.UUID, purpose model.TokenPurpose) error {
	return s.store.Clear(ctx, userID, purpose)
}
