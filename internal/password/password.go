// Package password hashes and verifies user passwords with argon2id and
// enforces a configurable strength policy.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

const (
	argonTime    = 1
	argonMemKiB  = 64 * 1024
	argonThreads = 4
	saltLen      = 16
	keyLen       = 32
)

// Policy is the minimum strength required of new passwords.
type Policy struct {
	MinLength    int
	RequireUpper bool
	RequireLower bool
	RequireDigit bool
}

// DefaultPolicy matches the thresholds enforced by the frontend forms.
func DefaultPolicy() Policy {
	return Policy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true}
}

// Hasher derives and verifies password hashes. The zero value is not usable;
// construct with New.
type Hasher struct {
	policy Policy
}

// New creates a Hasher enforcing the given policy.
func New(policy Policy) *Hasher {
	if policy.MinLength <= 0 {
		policy.MinLength = DefaultPolicy().MinLength
	}
	return &Hasher{policy: policy}
}

// Hash derives an argon2id hash with a fresh random salt. The returned blob
// encodes the algorithm parameters and salt, so Verify needs no other state.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, argonTime, argonMemKiB, argonThreads, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemKiB, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters and salt encoded in blob and
// compares in constant time.
func (h *Hasher) Verify(plaintext, blob string) (bool, error) {
	parts := strings.Split(blob, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrMalformedHash
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrMalformedHash
	}
	// An empty key would compare equal to the empty derivation of any password.
	if len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(plaintext), salt, iters, mem, par, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// ValidateStrength checks plaintext against the configured policy and returns
// a validation error naming the first unmet rule.
func (h *Hasher) ValidateStrength(plaintext string) error {
	if len(plaintext) < h.policy.MinLength {
		return model.NewValidationError(fmt.Sprintf("password must be at least %d characters long", h.policy.MinLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if h.policy.RequireUpper && !hasUpper {
		return model.NewValidationError("password must contain an uppercase letter")
	}
	if h.policy.RequireLower && !hasLower {
		return model.NewValidationError("password must contain a lowercase letter")
	}
	if h.policy.RequireDigit && !hasDigit {
		return model.NewValidationError("password must contain a digit")
	}

	return nil
}
