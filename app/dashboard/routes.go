package dashboard

import (
	"strings"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/health"
	"github.com/dmitrymomot/sbauth/core/supabase"
	"github.com/dmitrymomot/sbauth/middleware"
)

func isHealthCheck(ctx handler.Context) bool {
	return strings.HasPrefix(ctx.Request().URL.Path, "/health")
}

func (a *App) routes() {
	a.router.Use(
		middleware.RequestIDWithConfig[*Context](middleware.RequestIDConfig{
			Skip: isHealthCheck,
		}),
		middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{
			Logger: a.logger,
			Skip:   isHealthCheck,
		}),
		middleware.SupabaseWithConfig[*Context](middleware.SupabaseConfig{
			Skip:          isHealthCheck,
			URL:           a.config.Supabase.URL,
			Key:           a.config.Supabase.Key,
			ClientOptions: a.config.Supabase.ClientOptions(),
			HTTPClient:    a.httpClient,
			Logger:        a.logger,
		}),
	)

	a.router.Get("/health", health.Liveness[*Context])
	a.router.Get("/health/ready", health.Readiness[*Context](
		a.logger,
		supabase.Healthcheck(a.config.Supabase.URL, a.config.Supabase.Key, a.httpClient),
	))
	a.router.Get("/{$}", a.home)
	a.router.Get("/api/session", a.session)
	a.router.With(middleware.RequireUser[*Context]()).Get("/api/user", a.user)
	a.router.Post("/auth/signout", a.signOut)

	if secret := a.config.Supabase.JWTSecret; secret != "" {
		a.router.With(middleware.JWTWithConfig[*Context](middleware.JWTConfig{
			Secret: []byte(secret),
			TokenExtractor: middleware.JWTFromMultiple(
				middleware.JWTFromAuthHeader(),
				middleware.JWTFromSupabaseSession(),
			),
		})).Get("/api/claims", a.verifiedClaims)
	} else {
		a.router.With(middleware.RequireUser[*Context]()).Get("/api/claims", a.claims)
	}
}
