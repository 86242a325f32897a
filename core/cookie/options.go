package cookie

import (
	"net/http"
	"strings"
)

// DefaultMaxAge keeps auth cookies for 400 days, the browser upper bound.
const DefaultMaxAge = 400 * 24 * 60 * 60

// Options configures cookie attributes written with Set-Cookie.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// DefaultOptions returns the attributes used for auth cookies unless overridden.
// HttpOnly is off so browser-side code can share the same session.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	}
}

// Option is a functional option for configuring cookie options.
type Option func(*Options)

// WithPath sets the cookie path attribute.
func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithDomain sets the cookie domain attribute.
func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithMaxAge sets the cookie max-age in seconds.
// Negative values delete the cookie immediately.
func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

// WithSecure sets the secure flag, ensuring cookies are only sent over HTTPS.
func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

// WithHTTPOnly prevents JavaScript access to the cookie.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute for CSRF protection.
func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

// Apply returns a copy of base with opts applied. base is never mutated.
func Apply(base Options, opts ...Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}

// ParseSameSite maps "lax", "strict", "none" (any case) to http.SameSite.
// Anything else yields http.SameSiteDefaultMode.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
