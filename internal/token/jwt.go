package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

// Parse failure modes, reported separately so the caller can distinguish an
// expired token from a forged or garbled one.
var (
	ErrTokenMalformed = errors.New("access token malformed")
	ErrTokenSignature = errors.New("access token signature invalid")
	ErrTokenExpired   = errors.New("access token expired")
)

// Claims represents JWT claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWT implements model.AccessTokenManager backed by symmetric HMAC. Tokens
// are self-contained: verification needs no store round-trip, which also
// means an issued access token cannot be revoked before it expires.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a JWT manager.
type Option func(*JWT)

// WithClock replaces the wall clock, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) { j.now = now }
}

// NewJWT creates an access token manager signing with the given secret.
func NewJWT(secret []byte, ttl time.Duration, opts ...Option) *JWT {
	j := &JWT{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

var _ model.AccessTokenManager = (*JWT)(nil)

// Generate creates a signed access token embedding the subject and email.
func (j *JWT) Generate(userID uuid.UUID, email string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies the signature over the full payload, then the embedded
// expiry, and returns the claims.
func (j *JWT) Parse(tokenString string) (model.AccessClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.AccessClaims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return model.AccessClaims{}, ErrTokenSignature
		default:
			return model.AccessClaims{}, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return model.AccessClaims{}, ErrTokenSignature
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.AccessClaims{}, fmt.Errorf("%w: bad subject: %w", ErrTokenMalformed, err)
	}

	return model.AccessClaims{UserID: userID, Email: claims.Email}, nil
}
