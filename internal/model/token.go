package model

import "github.com/google/uuid"

// AccessClaims are the verified contents of an access token.
type AccessClaims struct {
	UserID uuid.UUID
	Email  string
}

// AccessTokenManager signs and verifies self-contained access tokens.
type AccessTokenManager interface {
	Generate(userID uuid.UUID, email string) (string, error)
	Parse(token string) (AccessClaims, error)
}
