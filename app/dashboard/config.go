package dashboard

import (
	"log/slog"

	"github.com/dmitrymomot/sbauth/core/server"
	"github.com/dmitrymomot/sbauth/core/supabase"
)

type Config struct {
	Supabase supabase.Config
	Server   server.Config

	AppName  string `env:"APP_NAME" envDefault:"sbauth-dashboard"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
