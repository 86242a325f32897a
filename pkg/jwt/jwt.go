package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed tokens or bad signatures.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken is returned by Verify for tokens past their exp claim.
	ErrExpiredToken = errors.New("jwt: token expired")
	// ErrEmptySecret is returned by Verify when no secret is given.
	ErrEmptySecret = errors.New("jwt: empty secret")
)

// Claims are the claims carried by backend access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Role        string         `json:"role,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
	AAL         string         `json:"aal,omitempty"`
	IsAnonymous bool           `json:"is_anonymous,omitempty"`
	AppMetadata map[string]any `json:"app_metadata,omitempty"`
}

// ExpiresAtTime returns the exp claim, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ExpiresWithin reports whether the token expires within d of now.
// Tokens without exp never expire.
func (c *Claims) ExpiresWithin(d time.Duration, now time.Time) bool {
	exp := c.ExpiresAtTime()
	if exp.IsZero() {
		return false
	}
	return !exp.After(now.Add(d))
}

// ParseUnverified decodes claims without checking the signature or expiry.
func ParseUnverified(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &claims, nil
}

// Verify checks an HS256 signature and the temporal claims, then returns the claims.
func Verify(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", ErrExpiredToken, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}

// Sign issues an HS256 token for claims. Used by tests and local tooling.
func Sign(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
