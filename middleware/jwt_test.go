package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/core/router"
	"github.com/dmitrymomot/sbauth/core/supabase/supabasetest"
	"github.com/dmitrymomot/sbauth/middleware"
	"github.com/dmitrymomot/sbauth/pkg/fetch"
	"github.com/dmitrymomot/sbauth/pkg/jwt"
)

const jwtSecret = "middleware-test-secret-with-32-characters"

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token, err := jwt.Sign(jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
		Email: "ada@example.com",
		Role:  "authenticated",
	}, []byte(secret))
	require.NoError(t, err)
	return token
}

func newJWTRouter(cfg middleware.JWTConfig) router.Router[*router.Context] {
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]))
	r.Use(middleware.JWTWithConfig[*router.Context](cfg))
	r.Get("/claims", func(ctx *router.Context) handler.Response {
		claims, ok := middleware.GetJWTClaims(ctx)
		if !ok {
			return response.Error(response.ErrInternalServerError)
		}
		return response.JSON(map[string]string{"sub": claims.Subject, "email": claims.Email})
	})
	return r
}

func TestJWTValidToken(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.JWT[*router.Context](jwtSecret))
	r.Get("/claims", func(ctx *router.Context) handler.Response {
		claims, ok := middleware.GetJWTClaims(ctx)
		require.True(t, ok)
		return response.String(claims.Subject + " " + claims.Role)
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwtSecret, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1 authenticated", w.Body.String())
}

func TestJWTRejectsInvalidTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "malformed", header: "Bearer not-a-token"},
		{name: "wrong secret", header: "Bearer " + signToken(t, "another-secret-with-at-least-32-chars!!", time.Now().Add(time.Hour))},
		{name: "expired", header: "Bearer " + signToken(t, jwtSecret, time.Now().Add(-time.Minute))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newJWTRouter(middleware.JWTConfig{Secret: []byte(jwtSecret)})

			req := httptest.NewRequest(http.MethodGet, "/claims", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body response.HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body.Code)
		})
	}
}

func TestJWTCustomErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	r := newJWTRouter(middleware.JWTConfig{
		Secret: []byte(jwtSecret),
		ErrorHandler: func(ctx handler.Context, err error) handler.Response {
			got = err
			return response.JSONWithStatus(map[string]string{"error": "login required"}, http.StatusForbidden)
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/claims", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, errors.Is(got, middleware.ErrMissingToken))
}

func TestJWTExpiredTokenError(t *testing.T) {
	t.Parallel()

	var got error
	r := newJWTRouter(middleware.JWTConfig{
		Secret: []byte(jwtSecret),
		ErrorHandler: func(ctx handler.Context, err error) handler.Response {
			got = err
			return response.Error(response.ErrUnauthorized)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwtSecret, time.Now().Add(-time.Hour)))
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.ErrorIs(t, got, jwt.ErrExpiredToken)
}

func TestJWTSkip(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.JWTWithConfig[*router.Context](middleware.JWTConfig{
		Secret: []byte(jwtSecret),
		Skip:   func(ctx handler.Context) bool { return ctx.Request().URL.Path == "/public" },
	}))
	r.Get("/public", func(ctx *router.Context) handler.Response {
		_, ok := middleware.GetJWTClaims(ctx)
		assert.False(t, ok)
		return response.NoContent()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJWTPanicsWithoutSecret(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { middleware.JWT[*router.Context]("") })
}

func TestJWTExtractors(t *testing.T) {
	t.Parallel()

	token := "header.payload.signature"

	tests := []struct {
		name      string
		extractor func(handler.Context) string
		prepare   func(*http.Request)
		want      string
	}{
		{
			name:      "bearer header",
			extractor: middleware.JWTFromAuthHeader(),
			prepare:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			want:      token,
		},
		{
			name:      "bearer scheme is case insensitive",
			extractor: middleware.JWTFromAuthHeader(),
			prepare:   func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) },
			want:      token,
		},
		{
			name:      "raw authorization header",
			extractor: middleware.JWTFromAuthHeader(),
			prepare:   func(r *http.Request) { r.Header.Set("Authorization", token) },
			want:      token,
		},
		{
			name:      "custom header",
			extractor: middleware.JWTFromHeader("X-Access-Token"),
			prepare:   func(r *http.Request) { r.Header.Set("X-Access-Token", token) },
			want:      token,
		},
		{
			name:      "query",
			extractor: middleware.JWTFromQuery("access_token"),
			prepare:   func(r *http.Request) { r.URL.RawQuery = "access_token=" + token },
			want:      token,
		},
		{
			name:      "cookie",
			extractor: middleware.JWTFromCookie("access_token"),
			prepare:   func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: token}) },
			want:      token,
		},
		{
			name:      "cookie missing",
			extractor: middleware.JWTFromCookie("access_token"),
			prepare:   func(*http.Request) {},
			want:      "",
		},
		{
			name: "first non-empty wins",
			extractor: middleware.JWTFromMultiple(
				middleware.JWTFromAuthHeader(),
				middleware.JWTFromQuery("access_token"),
			),
			prepare: func(r *http.Request) { r.URL.RawQuery = "access_token=" + token },
			want:    token,
		},
		{
			name:      "no session in context",
			extractor: middleware.JWTFromSupabaseSession(),
			prepare:   func(*http.Request) {},
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			ctx := router.NewContext(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, tt.extractor(ctx))
		})
	}
}

func TestJWTFromSupabaseSession(t *testing.T) {
	t.Parallel()

	srv := supabasetest.NewServer(t)
	user := supabasetest.NewUser("ada@example.com")
	issued := srv.IssueSession(user, time.Now().Add(time.Hour))

	r := router.New[*router.Context]()
	r.Use(middleware.SupabaseWithConfig[*router.Context](middleware.SupabaseConfig{
		URL:        srv.URL,
		Key:        supabasetest.Key,
		HTTPClient: fetch.NewClient(5 * time.Second),
	}))
	r.With(middleware.JWTWithConfig[*router.Context](middleware.JWTConfig{
		Secret:         []byte(supabasetest.JWTSecret),
		TokenExtractor: middleware.JWTFromSupabaseSession(),
	})).Get("/claims", func(ctx *router.Context) handler.Response {
		claims, _ := middleware.GetJWTClaims(ctx)
		return response.String(claims.Subject)
	})

	w := doRequest(r, http.MethodGet, "/claims", supabasetest.CookieHeader(srv.StorageKey(), issued))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID.String(), w.Body.String())

	w = doRequest(r, http.MethodGet, "/claims", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
