// Package supabasetest provides an in-memory auth API for tests.
package supabasetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/sbauth/core/cookie"
	"github.com/dmitrymomot/sbauth/core/supabase"
	"github.com/dmitrymomot/sbauth/pkg/jwt"
)

const (
	// Key is the public key the server accepts.
	Key = "test-anon-key"
	// JWTSecret signs every issued access token.
	JWTSecret = "test-jwt-secret-with-at-least-32-characters"
	// TokenTTL is the lifetime of tokens issued by refresh.
	TokenTTL = time.Hour
)

// Server is a fake auth API that keeps sessions in memory.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	seq           int
	users         map[string]*supabase.User // by access token
	refreshTokens map[string]*supabase.User // by refresh token
	userStatus    int
	refreshStatus int
	healthStatus  int
	calls         map[string]int
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		users:         make(map[string]*supabase.User),
		refreshTokens: make(map[string]*supabase.User),
		calls:         make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", s.handleToken)
	mux.HandleFunc("GET /auth/v1/user", s.handleUser)
	mux.HandleFunc("POST /auth/v1/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/v1/health", s.handleHealth)

	s.Server = httptest.NewServer(s.requireKey(mux))
	t.Cleanup(s.Close)
	return s
}

// StorageKey is the cookie name clients derive from the server URL.
func (s *Server) StorageKey() string {
	u, _ := url.Parse(s.URL)
	return supabase.DefaultStorageKey(u)
}

// NewUser returns a user with a fresh id.
func NewUser(email string) *supabase.User {
	return &supabase.User{
		ID:           uuid.New(),
		Aud:          "authenticated",
		Role:         "authenticated",
		Email:        email,
		AppMetadata:  map[string]any{"provider": "email"},
		UserMetadata: map[string]any{},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

// IssueSession registers a session for user whose access token expires at expiresAt.
func (s *Server) IssueSession(user *supabase.User, expiresAt time.Time) *supabase.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(user, expiresAt)
}

// Revoke forgets every token of the user.
func (s *Server) Revoke(user *supabase.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokeLocked(user.ID)
}

// FailUser makes GET /user answer with status. Zero restores normal behavior.
func (s *Server) FailUser(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userStatus = status
}

// FailRefresh makes the refresh grant answer with status. Zero restores normal behavior.
func (s *Server) FailRefresh(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

// FailHealth makes GET /health answer with status. Zero restores normal behavior.
func (s *Server) FailHealth(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthStatus = status
}

// Calls returns how many times an endpoint ("token", "user", "logout", "health") was hit.
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// CookieHeader renders session as the Cookie header a browser would send.
func CookieHeader(storageKey string, session *supabase.Session) string {
	payload, err := json.Marshal(session)
	if err != nil {
		panic(err)
	}
	chunks := cookie.Chunk(storageKey, cookie.EncodingBase64URL.Encode(string(payload)), cookie.DefaultOptions())

	pairs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

func (s *Server) issueLocked(user *supabase.User, expiresAt time.Time) *supabase.Session {
	s.seq++

	claims := jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Audience:  gojwt.ClaimStrings{user.Aud},
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
			ID:        fmt.Sprintf("access-%d", s.seq),
		},
		Email:     user.Email,
		Role:      user.Role,
		SessionID: uuid.NewString(),
		AAL:       "aal1",
	}
	access, err := jwt.Sign(claims, []byte(JWTSecret))
	if err != nil {
		panic(err)
	}
	refresh := fmt.Sprintf("refresh-%d", s.seq)

	s.users[access] = user
	s.refreshTokens[refresh] = user

	return &supabase.Session{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
		ExpiresAt:    expiresAt.Unix(),
		RefreshToken: refresh,
		User:         user,
	}
}

func (s *Server) revokeLocked(id uuid.UUID) {
	for token, u := range s.users {
		if u.ID == id {
			delete(s.users, token)
		}
	}
	for token, u := range s.refreshTokens {
		if u.ID == id {
			delete(s.refreshTokens, token)
		}
	}
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != Key {
			writeError(w, http.StatusUnauthorized, "no_api_key", "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["token"]++

	if r.URL.Query().Get("grant_type") != "refresh_token" {
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", "unsupported grant type")
		return
	}
	if s.refreshStatus != 0 {
		writeError(w, s.refreshStatus, "unexpected_failure", http.StatusText(s.refreshStatus))
		return
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid body")
		return
	}

	user, ok := s.refreshTokens[body.RefreshToken]
	if !ok {
		writeError(w, http.StatusBadRequest, "refresh_token_not_found", "Invalid Refresh Token: Refresh Token Not Found")
		return
	}
	// Refresh tokens are single use.
	delete(s.refreshTokens, body.RefreshToken)

	writeJSON(w, http.StatusOK, s.issueLocked(user, time.Now().Add(TokenTTL)))
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["user"]++

	if s.userStatus != 0 {
		writeError(w, s.userStatus, "unexpected_failure", http.StatusText(s.userStatus))
		return
	}

	user, ok := s.users[bearer(r)]
	if !ok {
		writeError(w, http.StatusForbidden, "bad_jwt", "invalid JWT: unable to parse or verify signature")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["logout"]++

	user, ok := s.users[bearer(r)]
	if !ok {
		writeError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT")
		return
	}
	s.revokeLocked(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["health"]++

	if s.healthStatus != 0 {
		writeError(w, s.healthStatus, "unexpected_failure", http.StatusText(s.healthStatus))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": "GoTrue", "description": "fake auth api"})
}

func bearer(r *http.Request) string {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"code": status, "error_code": code, "msg": msg})
}
