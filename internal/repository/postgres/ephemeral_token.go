package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

var _ model.EphemeralTokenStore = (*EphemeralTokenRepository)(nil)

type EphemeralTokenRepository struct {
	db *Connection
}

func NewEphemeralTokenRepository(db *Connection) *EphemeralTokenRepository {
	return &EphemeralTokenRepository{db: db}
}

// Create inserts the token after removing any unconsumed token of the same
// purpose for the same user, so at most one live token per (user, purpose)
// exists. Callers wrap this in a transaction via the TxManager.
func (r *EphemeralTokenRepository) Create(ctx context.Context, token model.EphemeralToken) error {
	const supersede = `
        DELETE FROM ephemeral_tokens
        WHERE user_id = $1 AND purpose = $2 AND consumed_at IS NULL
    `
	const insert = `
        INSERT INTO ephemeral_tokens (id, user_id, token_hash, purpose, expires_at, consumed_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	q := r.db.q(ctx)
	if _, err := q.Exec(ctx, supersede, token.UserID, token.Purpose); err != nil {
		return fmt.Errorf("failed to supersede ephemeral tokens: %w", err)
	}
	if _, err := q.Exec(ctx, insert,
		token.ID, token.UserID, token.TokenHash, token.Purpose, token.ExpiresAt, token.ConsumedAt,
	); err != nil {
		return fmt.Errorf("failed to create ephemeral token: %w", err)
	}
	return nil
}

func (r *EphemeralTokenRepository) GetByHash(ctx context.Context, tokenHash []byte, purpose model.TokenPurpose) (model.EphemeralToken, error) {
	const query = `
        SELECT id, user_id, token_hash, purpose, expires_at, consumed_at, created_at
        FROM ephemeral_tokens WHERE token_hash = $1 AND purpose = $2
    `
	var et model.EphemeralToken
	err := r.db.q(ctx).QueryRow(ctx, query, tokenHash, purpose).Scan(
		&et.ID, &et.UserID, &et.TokenHash, &et.Purpose, &et.ExpiresAt, &et.ConsumedAt, &et.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EphemeralToken{}, model.ErrNotFound
		}
		return model.EphemeralToken{}, fmt.Errorf("failed to get ephemeral token by hash: %w", err)
	}
	return et, nil
}

// Consume marks the token used in a single guarded UPDATE. A row that is
// absent or already consumed is indistinguishable on purpose: both report
// ErrNotFound, so a consumed link can never be replayed.
func (r *EphemeralTokenRepository) Consume(ctx context.Context, tokenHash []byte, purpose model.TokenPurpose, now time.Time) (model.EphemeralToken, error) {
	const query = `
        UPDATE ephemeral_tokens SET consumed_at = $3
        WHERE token_hash = $1 AND purpose = $2 AND consumed_at IS NULL
        RETURNING id, user_id, token_hash, purpose, expires_at, consumed_at, created_at
    `
	var et model.EphemeralToken
	err := r.db.q(ctx).QueryRow(ctx, query, tokenHash, purpose, now).Scan(
		&et.ID, &et.UserID, &et.TokenHash, &et.Purpose, &et.ExpiresAt, &et.ConsumedAt, &et.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EphemeralToken{}, model.ErrNotFound
		}
		return model.EphemeralToken{}, fmt.Errorf("failed to consume ephemeral token: %w", err)
	}

	if now.After(et.ExpiresAt) {
		return model.EphemeralToken{}, model.ErrTokenExpired
	}
	return et, nil
}

func (r *EphemeralTokenRepository) Clear(ctx context.Context, userID uuid.UUID, purpose model.TokenPurpose) error {
	const query = `
        DELETE FROM ephemeral_tokens WHERE user_id = $1 AND purpose = $2
    `
	if _, err := r.db.q(ctx).Exec(ctx, query, userID, purpose); err != nil {
		return fmt.Errorf("failed to clear ephemeral tokens: %w", err)
	}
	return nil
}
