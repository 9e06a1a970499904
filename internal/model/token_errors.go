package model

import "errors"

var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenConsumed = errors.New("token already used")
)
