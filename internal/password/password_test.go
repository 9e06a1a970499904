package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := New(DefaultPolicy())

	blob, err := h.Hash("Sup3rSecret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(blob, "$argon2id$"))

	ok, err := h.Verify("Sup3rSecret", blob)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_Verify_WrongPassword(t *testing.T) {
	h := New(DefaultPolicy())

	blob, err := h.Hash("Sup3rSecret")
	require.NoError(t, err)

	ok, err := h.Verify("sup3rsecret", blob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_Hash_SaltVaries(t *testing.T) {
	h := New(DefaultPolicy())

	first, err := h.Hash("Sup3rSecret")
	require.NoError(t, err)
	second, err := h.Hash("Sup3rSecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_Verify_MalformedHash(t *testing.T) {
	h := New(DefaultPolicy())

	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$not-base64!$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
	}
	for _, blob := range cases {
		ok, err := h.Verify("whatever", blob)
		assert.ErrorIs(t, err, ErrMalformedHash, "blob %q", blob)
		assert.False(t, ok, "blob %q", blob)
	}
}

func TestHasher_ValidateStrength(t *testing.T) {
	h := New(Policy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true})

	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{name: "valid", password: "Abcdefg1"},
		{name: "too short", password: "Ab1", wantMsg: "at least 8 characters"},
		{name: "no uppercase", password: "abcdefg1", wantMsg: "uppercase"},
		{name: "no lowercase", password: "ABCDEFG1", wantMsg: "lowercase"},
		{name: "no digit", password: "Abcdefgh", wantMsg: "digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.ValidateStrength(tt.password)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			typed, ok := model.AsError(err)
			require.True(t, ok)
			assert.Equal(t, model.KindValidation, typed.Kind)
			assert.Contains(t, typed.Message, tt.wantMsg)
		})
	}
}

func TestNew_ZeroMinLengthFallsBack(t *testing.T) {
	h := New(Policy{})

	err := h.ValidateStrength("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8 characters")
}
