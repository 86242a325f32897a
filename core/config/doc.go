// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (a missing file is not an error)
// and uses the caarlos0/env library for parsing environment variables into
// struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/sbauth/core/config"
//
//	var cfg supabase.Config
//
//	// Load with error handling
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 supabase.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 supabase.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently. Use Reset in tests to drop the
// cache after changing the environment.
package config
