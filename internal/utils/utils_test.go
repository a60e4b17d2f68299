package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
	assert.False(t, VerifyPassword("not-a-hash", "anything"))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", "u-1", "a@b.c", "staff", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "staff", claims.Role)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", "u-1", "a@b.c", "staff", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", tok)
	assert.Error(t, err)
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", "u-1", "a@b.c", "staff", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok)
	assert.Error(t, err)
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.jwt")
	assert.Error(t, err)
	_, err = ParseSessionToken("secret", "")
	assert.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashResetToken(a), HashResetToken(a))
	assert.NotEqual(t, HashResetToken(a), HashResetToken(b))
	assert.Len(t, HashResetToken(a), 64)
}
