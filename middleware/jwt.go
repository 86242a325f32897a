package middleware

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/pkg/jwt"
)

// ErrMissingToken is passed to the JWT error handler when no token was extracted.
var ErrMissingToken = errors.New("missing access token")

type jwtClaimsContextKey struct{}

// JWTConfig configures the access token verification middleware.
type JWTConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Secret is the project's JWT secret used to verify HS256 signatures
	Secret []byte
	// TokenExtractor defines how to extract the token from the request (default: from Authorization header)
	TokenExtractor func(ctx handler.Context) string
	// ErrorHandler defines how to handle authentication errors (default: returns 401 Unauthorized)
	ErrorHandler func(ctx handler.Context, err error) handler.Response
}

// JWT verifies bearer access tokens signed with the project JWT secret and
// stores their claims in the request context. Panics if secret is empty.
//
// Usage:
//
//	api := r.With(middleware.JWT[*router.Context](cfg.Supabase.JWTSecret))
//	api.Get("/api/claims", func(ctx *router.Context) handler.Response {
//		claims, _ := middleware.GetJWTClaims(ctx)
//		return response.JSON(claims)
//	})
func JWT[C handler.Context](secret string) handler.Middleware[C] {
	return JWTWithConfig[C](JWTConfig{Secret: []byte(secret)})
}

// JWTWithConfig creates an access token verification middleware with custom configuration.
//
// Tokens held in the session cookie can be verified by chaining it after the
// Supabase middleware:
//
//	r.Use(middleware.Supabase[*router.Context](cfg, log))
//	r.With(middleware.JWTWithConfig[*router.Context](middleware.JWTConfig{
//		Secret: []byte(secret),
//		TokenExtractor: middleware.JWTFromMultiple(
//			middleware.JWTFromAuthHeader(),
//			middleware.JWTFromSupabaseSession(),
//		),
//	}))
func JWTWithConfig[C handler.Context](cfg JWTConfig) handler.Middleware[C] {
	if len(cfg.Secret) == 0 {
		panic("jwt middleware: secret is required")
	}
	if cfg.TokenExtractor == nil {
		cfg.TokenExtractor = JWTFromAuthHeader()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx handler.Context, err error) handler.Response {
			return response.Error(response.ErrUnauthorized.WithError(err))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			token := cfg.TokenExtractor(ctx)
			if token == "" {
				return cfg.ErrorHandler(ctx, ErrMissingToken)
			}

			claims, err := jwt.Verify(token, cfg.Secret)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.SetValue(jwtClaimsContextKey{}, claims)
			return next(ctx)
		}
	}
}

// GetJWTClaims returns the verified claims stored by the JWT middleware.
func GetJWTClaims(ctx handler.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(jwtClaimsContextKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// JWTFromAuthHeader extracts a token from the Authorization header with the
// Bearer scheme. Tokens without the prefix are accepted as-is.
func JWTFromAuthHeader() func(handler.Context) string {
	return func(ctx handler.Context) string {
		auth := ctx.Request().Header.Get("Authorization")
		if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
			return strings.TrimSpace(auth[7:])
		}
		return auth
	}
}

// JWTFromHeader extracts a token from a custom header.
func JWTFromHeader(headerName string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		return ctx.Request().Header.Get(headerName)
	}
}

// JWTFromQuery extracts a token from a URL query parameter.
func JWTFromQuery(paramName string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		return ctx.Request().URL.Query().Get(paramName)
	}
}

// JWTFromCookie extracts a token from a plain cookie.
func JWTFromCookie(cookieName string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		c, err := ctx.Request().Cookie(cookieName)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

// JWTFromSupabaseSession takes the access token of the session resolved by
// the Supabase middleware, including one refreshed during this request.
func JWTFromSupabaseSession() func(handler.Context) string {
	return func(ctx handler.Context) string {
		session, ok := GetSupabaseSession(ctx)
		if !ok {
			return ""
		}
		return session.AccessToken
	}
}

// JWTFromMultiple tries extractors in order and returns the first non-empty token.
func JWTFromMultiple(extractors ...func(handler.Context) string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		for _, extract := range extractors {
			if token := extract(ctx); token != "" {
				return token
			}
		}
		return ""
	}
}
