package supabase

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sbauth/core/cookie"
)

// Config provides environment-based configuration for the server client.
type Config struct {
	URL            string            `env:"SUPABASE_URL,required"`
	Key            string            `env:"SUPABASE_KEY,required"`
	StorageKey     string            `env:"SUPABASE_STORAGE_KEY"`
	CookieEncoding string            `env:"SUPABASE_COOKIE_ENCODING" envDefault:"base64url"`
	Cookie         cookie.Config     `envPrefix:"SUPABASE_"`
	Headers        map[string]string `env:"SUPABASE_HEADERS"`
	HTTPTimeout    time.Duration     `env:"SUPABASE_HTTP_TIMEOUT" envDefault:"10s"`
	ExpiryMargin   time.Duration     `env:"SUPABASE_EXPIRY_MARGIN" envDefault:"90s"`
	// JWTSecret enables local signature checks in GetClaims.
	JWTSecret string `env:"SUPABASE_JWT_SECRET"`
}

// ClientOptions builds ServerClientOptions from the config.
// Cookie methods, HTTP client and logger are request or process specific
// and are left to the caller.
func (c Config) ClientOptions() ServerClientOptions {
	return ServerClientOptions{
		CookieOptions:  c.Cookie.Options(),
		CookieEncoding: cookie.ParseEncoding(c.CookieEncoding),
		StorageKey:     c.StorageKey,
		Headers:        c.Headers,
		ExpiryMargin:   c.ExpiryMargin,
		JWTSecret:      c.JWTSecret,
	}
}

// CookieMethods binds a client to the cookies of one request.
type CookieMethods struct {
	// GetAll returns every cookie currently visible to the request.
	GetAll func() []cookie.Cookie
	// SetAll applies cookie writes in order.
	SetAll func(cookies []cookie.Cookie)
}

// ServerClientOptions configures NewServerClient.
type ServerClientOptions struct {
	Cookies        CookieMethods
	CookieOptions  cookie.Options // zero value means cookie.DefaultOptions()
	CookieEncoding cookie.Encoding
	StorageKey     string
	Headers        map[string]string
	HTTPClient     *http.Client
	ExpiryMargin   time.Duration
	JWTSecret      string
	Logger         *slog.Logger
	Now            func() time.Time
}

// DefaultExpiryMargin is how long before expiry a session gets refreshed.
const DefaultExpiryMargin = 90 * time.Second

// DefaultHTTPTimeout bounds a single auth API call when no HTTP client is given.
const DefaultHTTPTimeout = 10 * time.Second
