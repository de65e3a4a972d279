package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "admin", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := VerifyToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tok, err := NewRefreshToken(testSecret, 7, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Empty(t, claims.Role, "refresh tokens carry no role")
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "user", time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "user", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := VerifyToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestDecodeSubjectUnverified(t *testing.T) {
	// Expired tokens still reveal their subject; logout relies on this.
	tok, err := NewRefreshToken(testSecret, 99, -time.Hour)
	require.NoError(t, err)

	uid, ok := DecodeSubjectUnverified(tok.Token)
	require.True(t, ok)
	assert.Equal(t, uint64(99), uid)

	_, ok = DecodeSubjectUnverified("garbage")
	assert.False(t, ok)
}
