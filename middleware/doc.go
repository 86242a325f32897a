// Package middleware provides the request-scoped Supabase auth middleware and
// the supporting middleware an application typically chains around it.
//
// All middleware follow the same pattern: a generic default constructor, a
// WithConfig constructor taking a config struct with a Skip func, and GetX
// accessors for values stored in the request context.
//
// # Supabase
//
// Supabase builds one auth client per request, bound to the request's Cookie
// header and to the response's Set-Cookie headers. It resolves the current
// session and user concurrently and publishes both to handlers. Lookup
// failures are logged at debug level and treated as signed out.
//
//	r.Use(middleware.Supabase[*router.Context](cfg.Supabase, log))
//
//	r.Get("/me", func(ctx *router.Context) handler.Response {
//		user, ok := middleware.GetSupabaseUser(ctx)
//		if !ok {
//			return response.Error(response.ErrUnauthorized)
//		}
//		return response.JSON(user)
//	})
//
// When the session was refreshed or removed during the request, the response
// carries the new cookies and no-store cache headers. RequireUser rejects
// requests without a verified user.
//
// # JWT
//
// JWT verifies access tokens locally with the project's JWT secret. Tokens
// come from the Authorization header by default; JWTFromSupabaseSession uses
// the session resolved by the Supabase middleware.
//
// # Request ID and Logging
//
// RequestID tags each request with an ID and RequestIDExtractor adds it to
// records logged with the request context. Logging writes one access log
// record per request with credentials redacted and the user ID attached.
package middleware
