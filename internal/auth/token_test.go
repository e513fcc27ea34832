package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)

	token, expiresAt, err := tm.GenerateToken("water-desk")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "water-desk", claims.Handle())
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", 30).GenerateToken("water-desk")
	require.NoError(t, err)

	_, err = NewTokenManager("other", 30).ParseToken(token)
	require.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	token, _, err := tm.GenerateToken("water-desk")
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.True(t, PasswordMatches(hash, "s3cret-pass"))
	assert.False(t, PasswordMatches(hash, "wrong"))
	assert.False(t, PasswordMatches("", "s3cret-pass"))
}

func TestCheckPassword(t *testing.T) {
	assert.Error(t, CheckPassword("short"))
	assert.NoError(t, CheckPassword("long-enough"))
	assert.Error(t, CheckPassword(strings.Repeat("x", MaxPasswordBytes+1)))
}
