package server

import "time"

// Defaults used by New and DefaultConfig.
const (
	DefaultAddr = ":8080"

	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 10 * time.Second
	// DefaultWriteTimeout must exceed the time handlers spend waiting on the
	// auth API, including retries.
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultMaxHeaderBytes fits several chunked auth cookies.
	DefaultMaxHeaderBytes = 64 << 10
)
