// Package supabase implements the server side of Supabase Auth sessions.
//
// A Client is created per incoming request with NewServerClient and bound to
// that request's cookies through CookieMethods. The session is read from the
// sb-<project-ref>-auth-token cookie (chunked as name.0, name.1, ... when large,
// base64url-encoded by default), refreshed against the auth API when it is
// about to expire, and written back through SetAll.
//
//	jar := cookie.NewJar(r, w)
//	client, err := supabase.NewServerClient(cfg.URL, cfg.Key, supabase.ServerClientOptions{
//		Cookies: supabase.CookieMethods{GetAll: jar.GetAll, SetAll: jar.SetAll},
//	})
//	if err != nil {
//		return err
//	}
//	session, err := client.GetSession(ctx) // nil, nil when signed out
//	user, err := client.GetUser(ctx)       // verified against the auth API
//
// Clients hold no state shared between requests. Within one client the session
// is loaded once, so a refresh is never performed twice.
//
// Config can be loaded from the environment:
//
//	var cfg supabase.Config
//	config.MustLoad(&cfg)
//
// Healthcheck returns a readiness check for the auth API, usable with
// health.Readiness.
package supabase
