package cookie

// Config provides environment-based configuration for auth cookie attributes.
type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	MaxAge   int    `env:"COOKIE_MAX_AGE" envDefault:"34560000"` // 400 days
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"false"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

// DefaultConfig mirrors DefaultOptions.
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		SameSite: "lax",
	}
}

// Options converts the config into cookie attributes.
// Zero values keep the defaults from DefaultOptions.
func (c Config) Options() Options {
	opts := make([]Option, 0, 6)

	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}
	if c.Domain != "" {
		opts = append(opts, WithDomain(c.Domain))
	}
	if c.MaxAge != 0 {
		opts = append(opts, WithMaxAge(c.MaxAge))
	}
	if c.Secure {
		opts = append(opts, WithSecure(true))
	}
	if c.HttpOnly {
		opts = append(opts, WithHTTPOnly(true))
	}
	if c.SameSite != "" {
		opts = append(opts, WithSameSite(ParseSameSite(c.SameSite)))
	}

	return Apply(DefaultOptions(), opts...)
}
