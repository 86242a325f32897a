package supabase

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sbauth/pkg/jwt"
)

// Session is the token bundle issued by the auth service.
type Session struct {
	AccessToken          string `json:"access_token"`
	TokenType            string `json:"token_type"`
	ExpiresIn            int64  `json:"expires_in"`
	ExpiresAt            int64  `json:"expires_at,omitempty"`
	RefreshToken         string `json:"refresh_token"`
	ProviderToken        string `json:"provider_token,omitempty"`
	ProviderRefreshToken string `json:"provider_refresh_token,omitempty"`
	User                 *User  `json:"user,omitempty"`
}

// ExpiresAtTime returns when the access token expires. It falls back to the
// token's exp claim when expires_at was not stored, and to the zero time.
func (s *Session) ExpiresAtTime() time.Time {
	if s == nil {
		return time.Time{}
	}
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if claims, err := jwt.ParseUnverified(s.AccessToken); err == nil {
		return claims.ExpiresAtTime()
	}
	return time.Time{}
}

// WithoutUser returns a shallow copy with the embedded user removed.
func (s *Session) WithoutUser() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.User = nil
	return &cp
}

func (s *Session) valid() bool {
	return s != nil && s.AccessToken != "" && s.RefreshToken != ""
}

// User is the identity record associated with a session.
type User struct {
	ID               uuid.UUID      `json:"id"`
	Aud              string         `json:"aud"`
	Role             string         `json:"role,omitempty"`
	Email            string         `json:"email,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	PhoneConfirmedAt *time.Time     `json:"phone_confirmed_at,omitempty"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata"`
	UserMetadata     map[string]any `json:"user_metadata"`
	Identities       []Identity     `json:"identities,omitempty"`
	IsAnonymous      bool           `json:"is_anonymous,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at,omitempty"`
}

// Identity links a user to a sign-in provider.
type Identity struct {
	ID           string         `json:"id"`
	IdentityID   string         `json:"identity_id,omitempty"`
	UserID       uuid.UUID      `json:"user_id"`
	Provider     string         `json:"provider"`
	IdentityData map[string]any `json:"identity_data,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
}

// SignOutScope selects which sessions SignOut terminates.
type SignOutScope string

const (
	// SignOutGlobal ends every session of the user.
	SignOutGlobal SignOutScope = "global"
	// SignOutLocal only forgets the session held by this request's cookies.
	SignOutLocal SignOutScope = "local"
	// SignOutOthers ends every session except the current one.
	SignOutOthers SignOutScope = "others"
)
