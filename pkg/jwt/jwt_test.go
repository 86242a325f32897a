package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sbauth/pkg/jwt"
)

var secret = []byte("super-secret-jwt-token-with-at-least-32-characters")

func sign(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.Sign(jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "6f1c2c4e-1d2b-4c3a-9a8b-7c6d5e4f3a2b",
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
		Email:     "user@example.com",
		Role:      "authenticated",
		SessionID: "sess-1",
	}, secret)
	require.NoError(t, err)
	return token
}

func TestParseUnverified(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := jwt.ParseUnverified(sign(t, exp))
	require.NoError(t, err)

	assert.Equal(t, "6f1c2c4e-1d2b-4c3a-9a8b-7c6d5e4f3a2b", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.True(t, exp.Equal(claims.ExpiresAtTime()))
}

func TestParseUnverifiedIgnoresExpiry(t *testing.T) {
	t.Parallel()

	claims, err := jwt.ParseUnverified(sign(t, time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	assert.True(t, claims.ExpiresWithin(0, time.Now()))
}

func TestParseUnverifiedMalformed(t *testing.T) {
	t.Parallel()

	_, err := jwt.ParseUnverified("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		claims, err := jwt.Verify(sign(t, time.Now().Add(time.Hour)), secret)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", claims.SessionID)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.Verify(sign(t, time.Now().Add(-time.Hour)), secret)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.Verify(sign(t, time.Now().Add(time.Hour)), []byte("another-secret-another-secret-another"))
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.Verify("x", nil)
		assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	})
}

func TestExpiresWithin(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := &jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(now.Add(60 * time.Second))}}

	assert.True(t, claims.ExpiresWithin(90*time.Second, now))
	assert.False(t, claims.ExpiresWithin(30*time.Second, now))

	var empty jwt.Claims
	assert.False(t, empty.ExpiresWithin(time.Hour, now))
	assert.True(t, (*jwt.Claims)(nil).ExpiresAtTime().IsZero())
}
