// Package fetch provides an http.RoundTripper that retries transport failures.
//
// Only errors returned by the underlying transport (connection refused, reset,
// DNS failures) are retried; any HTTP response, including 5xx, is returned as is.
// Defaults: 3 attempts with a constant 100ms delay. A request whose context is
// done is never retried.
//
//	client := fetch.NewClient(10*time.Second, fetch.WithLogger(log))
//
//	// or wrap an existing transport
//	rt := fetch.NewTransport(http.DefaultTransport, fetch.WithAttempts(5))
package fetch
