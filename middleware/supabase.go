package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/sbauth/core/cookie"
	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/core/supabase"
	"github.com/dmitrymomot/sbauth/pkg/async"
	"github.com/dmitrymomot/sbauth/pkg/fetch"
)

type (
	supabaseClientContextKey  struct{}
	supabaseSessionContextKey struct{}
	supabaseUserContextKey    struct{}
)

// SupabaseConfig configures the Supabase auth middleware.
type SupabaseConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// URL is the Supabase project URL (required)
	URL string
	// Key is the public (anon) key (required)
	Key string
	// ClientOptions are applied to every per-request client. Cookies, HTTPClient
	// and Logger are overwritten by the middleware.
	ClientOptions supabase.ServerClientOptions
	// HTTPClient talks to the auth API (default: retrying fetch client)
	HTTPClient *http.Client
	// Logger receives lookup failures at debug level (default: discard)
	Logger *slog.Logger
	// Timeout bounds both lookups together (default: none, the request context only)
	Timeout time.Duration
}

// Supabase creates the auth middleware from environment config.
// Lookup failures and retried auth API calls are logged to log; nil discards them.
func Supabase[C handler.Context](cfg supabase.Config, log *slog.Logger) handler.Middleware[C] {
	if log == nil {
		log = logger.Discard()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = supabase.DefaultHTTPTimeout
	}
	return SupabaseWithConfig[C](SupabaseConfig{
		URL:           cfg.URL,
		Key:           cfg.Key,
		ClientOptions: cfg.ClientOptions(),
		HTTPClient:    fetch.NewClient(timeout, fetch.WithLogger(log.With(logger.Component("supabase")))),
		Logger:        log,
	})
}

// SupabaseWithConfig creates the auth middleware.
//
// For every request it builds a client bound to the request's cookies,
// resolves the session and the user concurrently and stores client, session
// and user in the context. A failed lookup leaves that value absent and never
// fails the request. Cookies rewritten by a refresh, or later by the handler,
// are sent as Set-Cookie together with headers that forbid caching.
//
// Handlers read the results with GetSupabaseClient, GetSupabaseSession and
// GetSupabaseUser. The published session has its embedded user removed; use
// GetSupabaseUser, which is verified against the auth API.
func SupabaseWithConfig[C handler.Context](cfg SupabaseConfig) handler.Middleware[C] {
	if cfg.URL == "" {
		panic(fmt.Sprintf("supabase middleware: %v", supabase.ErrMissingURL))
	}
	if cfg.Key == "" {
		panic(fmt.Sprintf("supabase middleware: %v", supabase.ErrMissingKey))
	}
	if u, err := url.Parse(cfg.URL); err != nil || u.Host == "" {
		panic(fmt.Sprintf("supabase middleware: %v: %q", supabase.ErrInvalidURL, cfg.URL))
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	log := cfg.Logger.With(logger.Component("supabase"))

	if cfg.HTTPClient == nil {
		cfg.HTTPClient = fetch.NewClient(supabase.DefaultHTTPTimeout, fetch.WithLogger(log))
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			jar := cookie.NewJar(ctx.Request(), ctx.ResponseWriter())

			opts := cfg.ClientOptions
			opts.Cookies = supabase.CookieMethods{GetAll: jar.GetAll, SetAll: jar.SetAll}
			opts.HTTPClient = cfg.HTTPClient
			opts.Logger = log

			client, err := supabase.NewServerClient(cfg.URL, cfg.Key, opts)
			if err != nil {
				log.ErrorContext(ctx, "failed to create supabase client", logger.Error(err))
				return next(ctx)
			}

			session, user := resolveIdentity(ctx.Request().Context(), client, cfg.Timeout, log)

			ctx.SetValue(supabaseClientContextKey{}, client)
			if session != nil {
				ctx.SetValue(supabaseSessionContextKey{}, session.WithoutUser())
			}
			if user != nil {
				ctx.SetValue(supabaseUserContextKey{}, user)
			}

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				if jar.Dirty() {
					for k, v := range response.NoStoreHeaders {
						w.Header().Set(k, v)
					}
				}
				return resp(w, r)
			}
		}
	}
}

// resolveIdentity runs both lookups concurrently and waits for both.
// Errors are logged and turned into nil results.
func resolveIdentity(ctx context.Context, client *supabase.Client, timeout time.Duration, log *slog.Logger) (*supabase.Session, *supabase.User) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sessionFuture := async.Async(ctx, client, func(ctx context.Context, c *supabase.Client) (*supabase.Session, error) {
		return c.GetSession(ctx)
	})
	userFuture := async.Async(ctx, client, func(ctx context.Context, c *supabase.Client) (*supabase.User, error) {
		return c.GetUser(ctx)
	})

	session, err := sessionFuture.Await()
	if err != nil {
		log.DebugContext(ctx, "session lookup failed", logger.Error(err))
		session = nil
	}

	user, err := userFuture.Await()
	if err != nil {
		log.DebugContext(ctx, "user lookup failed", logger.Error(err))
		user = nil
	}

	return session, user
}

// GetSupabaseClient returns the request's Supabase client.
func GetSupabaseClient(ctx handler.Context) (*supabase.Client, bool) {
	client, ok := ctx.Value(supabaseClientContextKey{}).(*supabase.Client)
	return client, ok && client != nil
}

// GetSupabaseSession returns the request's session, if any.
func GetSupabaseSession(ctx handler.Context) (*supabase.Session, bool) {
	session, ok := ctx.Value(supabaseSessionContextKey{}).(*supabase.Session)
	return session, ok && session != nil
}

// GetSupabaseUser returns the request's verified user, if any.
func GetSupabaseUser(ctx handler.Context) (*supabase.User, bool) {
	user, ok := ctx.Value(supabaseUserContextKey{}).(*supabase.User)
	return user, ok && user != nil
}

// RequireUserConfig configures the RequireUser guard.
type RequireUserConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// ErrorHandler builds the response for anonymous requests (default: 401 Unauthorized)
	ErrorHandler func(ctx handler.Context) handler.Response
}

// RequireUser rejects requests without a Supabase user with 401.
// It must run after the Supabase middleware.
func RequireUser[C handler.Context]() handler.Middleware[C] {
	return RequireUserWithConfig[C](RequireUserConfig{})
}

// RequireUserWithConfig rejects requests without a Supabase user.
func RequireUserWithConfig[C handler.Context](cfg RequireUserConfig) handler.Middleware[C] {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(handler.Context) handler.Response {
			return response.Error(response.ErrUnauthorized.WithMessage("authentication required"))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			if _, ok := GetSupabaseUser(ctx); !ok {
				return cfg.ErrorHandler(ctx)
			}
			return next(ctx)
		}
	}
}
