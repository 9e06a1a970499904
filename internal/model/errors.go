package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned by stores on a uniqueness violation.
var ErrAlreadyExists = errors.New("record already exists")

// Kind classifies an Error for callers and the transport layer. The set is
// closed: every failure a service returns carries exactly one of these.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindNotFound
	KindTokenExpired
	KindTokenInvalid
	KindDatabase
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindTokenExpired:
		return "token_expired"
	case KindTokenInvalid:
		return "token_invalid"
	case KindDatabase:
		return "database"
	default:
		return "internal"
	}
}

// Error is a typed failure with a safe, client-facing message. The wrapped
// cause is for logs only and never serialized.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed or weak input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewAuthError reports bad credentials. The message is deliberately the same
// for unknown email and wrong password.
func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NewNotFoundError reports absence of a resource that is not security sensitive.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewTokenError reports an unusable ephemeral or refresh token, distinguishing
// expiry from absence/replay so clients can render an actionable message.
func NewTokenError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewDatabaseError wraps a store failure without reinterpreting it.
func NewDatabaseError(err error) *Error {
	return &Error{Kind: KindDatabase, Message: "storage failure", Err: err}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// AsError extracts a typed *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
