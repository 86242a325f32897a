package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sbauth/core/config"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/core/router"
	"github.com/dmitrymomot/sbauth/core/server"
	"github.com/dmitrymomot/sbauth/core/supabase"
	"github.com/dmitrymomot/sbauth/pkg/fetch"
)

type App struct {
	config     Config
	router     router.Router[*Context]
	server     *server.Server
	httpClient *http.Client
	logger     *slog.Logger
}

type AppOption func(*App) error

// NewFromEnv loads Config from the environment and builds the app.
func NewFromEnv(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// New builds the app and registers its routes.
func New(cfg Config, opts ...AppOption) (*App, error) {
	if cfg.Supabase.URL == "" || cfg.Supabase.Key == "" {
		return nil, ErrMissingSupabaseConfig
	}

	app := &App{
		config: cfg,
		logger: logger.Discard(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.httpClient == nil {
		timeout := cfg.Supabase.HTTPTimeout
		if timeout <= 0 {
			timeout = supabase.DefaultHTTPTimeout
		}
		app.httpClient = fetch.NewClient(timeout, fetch.WithLogger(app.logger))
	}

	if app.router == nil {
		app.router = router.New[*Context](
			router.WithContextFactory[*Context](newContext),
			router.WithErrorHandler[*Context](response.JSONErrorHandler[*Context]),
			router.WithLogger[*Context](app.logger),
		)
	}
	app.routes()

	if app.server == nil {
		if cfg.Server.Addr == "" {
			cfg.Server = server.DefaultConfig()
		}
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

// Handler returns the app's HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run returns a function that serves the app until ctx is done, for use with errgroup.
func (a *App) Run(ctx context.Context) func() error {
	return a.server.Run(ctx, a.router)
}

// Server returns the underlying server.
func (a *App) Server() *server.Server {
	return a.server
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithRouter replaces the default router. Routes are registered on it, so
// middleware must not be added to it after New returns.
func WithRouter(router router.Router[*Context]) AppOption {
	return func(app *App) error {
		if router == nil {
			return errors.New("router cannot be nil")
		}
		app.router = router
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

// WithHTTPClient sets the client used to reach the auth API.
func WithHTTPClient(client *http.Client) AppOption {
	return func(app *App) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		app.httpClient = client
		return nil
	}
}
