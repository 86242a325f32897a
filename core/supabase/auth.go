package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/sbauth/core/cookie"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/pkg/jwt"
)

// GetSession returns the session stored in the request cookies, refreshing it
// when the access token expires within the expiry margin.
// No cookie yields (nil, nil). The first result is reused for the lifetime of
// the client, so concurrent callers trigger at most one refresh.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

// GetUser fetches the user that owns the current session from the auth API.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionMissing
	}

	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, session.AccessToken, nil, &user); err != nil {
		return nil, fmt.Errorf("supabase: get user: %w", err)
	}
	return &user, nil
}

// RefreshSession exchanges the stored refresh token for a new session
// regardless of expiry and writes it to the cookies.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrSessionMissing
	}

	session, err := c.refreshLocked(ctx, current.RefreshToken)
	c.session, c.sessionErr = session, err
	return session, err
}

// SignOut ends the session. Global and others scopes revoke refresh tokens
// server side; every scope but others removes the session cookies.
// Tokens the server no longer recognizes are not an error.
func (c *Client) SignOut(ctx context.Context, scope SignOutScope) error {
	if scope == "" {
		scope = SignOutGlobal
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.loadLocked(ctx)
	if err == nil && session != nil && scope != SignOutLocal {
		query := url.Values{"scope": {string(scope)}}
		err := c.do(ctx, http.MethodPost, "/logout", query, session.AccessToken, nil, nil)
		if err != nil && !IsAuthError(err, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound) {
			return fmt.Errorf("supabase: sign out: %w", err)
		}
	}

	if scope != SignOutOthers {
		c.storage.removeItem()
		c.session, c.sessionErr = nil, nil
	}
	return nil
}

// GetClaims returns the claims of the current access token. The signature is
// checked only when a JWT secret was configured.
func (c *Client) GetClaims(ctx context.Context) (*jwt.Claims, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionMissing
	}

	if c.jwtSecret != "" {
		return jwt.Verify(session.AccessToken, []byte(c.jwtSecret))
	}
	return jwt.ParseUnverified(session.AccessToken)
}

// loadLocked returns the cached session or reads it from cookies. c.mu must be held.
func (c *Client) loadLocked(ctx context.Context) (*Session, error) {
	if c.loaded {
		return c.session, c.sessionErr
	}
	c.session, c.sessionErr = c.readSession(ctx)
	c.loaded = true
	return c.session, c.sessionErr
}

func (c *Client) readSession(ctx context.Context) (*Session, error) {
	raw, err := c.storage.getItem()
	if errors.Is(err, cookie.ErrCookieNotFound) {
		return nil, nil
	}
	if err != nil {
		c.storage.removeItem()
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		c.storage.removeItem()
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if !session.valid() {
		c.storage.removeItem()
		return nil, ErrInvalidSession
	}

	// Sessions without expiry information are used as they are.
	expiresAt := session.ExpiresAtTime()
	if expiresAt.IsZero() || expiresAt.Sub(c.now()) > c.margin {
		return &session, nil
	}

	c.logger.DebugContext(ctx, "session expires soon, refreshing",
		logger.SessionExpiresAt(expiresAt),
	)
	return c.refreshLocked(ctx, session.RefreshToken)
}

// refreshLocked exchanges refreshToken and stores the result.
// Final (4xx) failures drop the stored session; transient ones keep it.
func (c *Client) refreshLocked(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	query := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}

	if err := c.do(ctx, http.MethodPost, "/token", query, "", body, &session); err != nil {
		var aerr *AuthError
		if errors.As(err, &aerr) && !aerr.Retryable() {
			c.storage.removeItem()
		}
		return nil, fmt.Errorf("supabase: refresh session: %w", err)
	}
	if !session.valid() {
		return nil, fmt.Errorf("supabase: refresh session: %w", ErrInvalidSession)
	}
	if session.ExpiresAt == 0 && session.ExpiresIn > 0 {
		session.ExpiresAt = c.now().Unix() + session.ExpiresIn
	}

	if err := c.save(&session); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "session refreshed",
		logger.SessionExpiresAt(session.ExpiresAtTime()),
	)
	return &session, nil
}

func (c *Client) save(session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("supabase: encode session: %w", err)
	}
	c.storage.setItem(string(payload))
	return nil
}
