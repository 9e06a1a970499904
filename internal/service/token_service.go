package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// TokenService issues, rotates, and revokes refresh tokens. Raw token values
// are high-entropy opaque strings returned to the caller exactly once; the
// store only ever sees their hashes.
type TokenService struct {
	manager    model.AccessTokenManager
	store      model.RefreshTokenStore
	tx         model.TxManager
	refreshTTL time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

// TokenServiceOption configures a TokenService.
type TokenServiceOption func(*TokenService)

// WithTokenClock replaces the wall clock, for tests.
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(
	manager model.AccessTokenManager,
	store model.RefreshTokenStore,
	tx model.TxManager,
	refreshTTL time.Duration,
	logger *logger.Logger,
	opts ...TokenServiceOption,
) *TokenService {
	s := &TokenService{
		manager:    manager,
		store:      store,
		tx:         tx,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints an access token and a fresh refresh token for the user.
func (s *TokenService) Issue(ctx context.Context, user model.User) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.Generate(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, err := newTokenValue()
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	now := s.now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, nil
}

// Rotate validates the presented refresh token, revokes it, and issues a
// replacement, all inside one transaction.
//
// Presenting an already-revoked token means the value was used twice: either
// the legitimate client replayed a rotated-out token or the value leaked.
// Both are treated as a theft signal, and every token the user owns is
// revoked before the call fails. The revoke-all runs outside the rotation
// transaction: that transaction ends in rollback, and the revocation must
// survive it.
func (s *TokenService) Rotate(ctx context.Context, presented string) (userID uuid.UUID, newRefresh string, err error) {
	presentedHash := hashToken(presented)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rt, err := s.store.GetByHash(ctx, presentedHash)
		if err != nil {
			return err
		}
		userID = rt.UserID

		now := s.now()
		if rt.RevokedAt != nil {
			return model.ErrTokenRevoked
		}
		if now.After(rt.ExpiresAt) {
			return model.ErrTokenExpired
		}

		if err := s.store.Revoke(ctx, presentedHash); err != nil {
			return fmt.Errorf("revoke rotated refresh: %w", err)
		}

		refresh, err := newTokenValue()
		if err != nil {
			return err
		}
		if err := s.store.Create(ctx, model.RefreshToken{
			ID:        uuid.New(),
			UserID:    rt.UserID,
			TokenHash: hashToken(refresh),
			IssuedAt:  now,
			ExpiresAt: now.Add(s.refreshTTL),
		}); err != nil {
			return fmt.Errorf("persist rotated refresh: %w", err)
		}

		newRefresh = refresh
		return nil
	})
	if errors.Is(err, model.ErrTokenRevoked) {
		s.logger.Warn("Token service: rotated-out refresh token replayed, revoking all sessions",
			"user_id", userID)
		if revokeErr := s.store.RevokeAllByUser(ctx, userID); revokeErr != nil {
			return uuid.Nil, "", fmt.Errorf("revoke all after reuse: %w", revokeErr)
		}
		return uuid.Nil, "", err
	}
	if err != nil {
		return uuid.Nil, "", err
	}

	return userID, newRefresh, nil
}

// RevokeByToken marks a single refresh token unusable. Revoking an unknown or
// already-revoked token is not an error.
func (s *TokenService) RevokeByToken(ctx context.Context, presented string) error {
	if err := s.store.Revoke(ctx, hashToken(presented)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// RevokeAllForUser marks every refresh token owned by the user unusable.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}
