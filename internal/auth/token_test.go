package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", "test-issuer")
	userID := uuid.New()

	token, err := manager.Generate(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "test").Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", "test").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", "test")

	for _, input := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := manager.Parse(input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
	}
}

func TestParseRejectsTampering(t *testing.T) {
	manager := NewTokenManager("test-secret", "test")

	token, err := manager.Generate(uuid.New())
	require.NoError(t, err)

	// Flip a payload byte so the signature no longer matches.
	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 0x01
	_, err = manager.Parse(string(tampered))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
