// Package health provides HTTP handlers for service health checks.
//
// Handlers:
//   - Liveness: process is running, no dependency checks
//   - Readiness: every dependency check passes
//   - NoContent: 204 for high-frequency pings
//
// Usage:
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](
//		logger,
//		supabase.Healthcheck(cfg.URL, cfg.Key, nil),
//	))
//
// Checks follow the func(context.Context) error signature.
package health
