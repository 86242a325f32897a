package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/sbauth/core/logger"
)

const (
	// DefaultAttempts is the total number of tries per request.
	DefaultAttempts = 3
	// DefaultDelay is the pause between tries.
	DefaultDelay = 100 * time.Millisecond
)

// ErrBodyNotRewindable is returned when a retry is needed but the request body cannot be replayed.
var ErrBodyNotRewindable = errors.New("fetch: request body cannot be replayed")

// Transport retries transport-level failures of the wrapped RoundTripper.
type Transport struct {
	base     http.RoundTripper
	attempts int
	delay    time.Duration
	logger   *slog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithAttempts sets the total number of tries. Values below 1 are ignored.
func WithAttempts(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.attempts = n
		}
	}
}

// WithDelay sets the constant pause between tries.
func WithDelay(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.delay = d
		}
	}
}

// WithLogger sets the logger used for retry warnings and final failures.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, opts ...Option) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	t := &Transport{
		base:     base,
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewClient returns an http.Client using a retrying transport over http.DefaultTransport.
// A zero timeout means no client-side timeout.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(nil, opts...),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	backoff := retry.WithMaxRetries(uint64(t.attempts-1), retry.NewConstant(t.delay))

	var (
		resp    *http.Response
		attempt int
	)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		r, err := t.prepare(ctx, req, attempt)
		if err != nil {
			return err
		}

		res, err := t.base.RoundTrip(r)
		if err != nil {
			// Aborted by the caller: surface immediately.
			if ctx.Err() != nil {
				return err
			}
			if attempt < t.attempts {
				t.logger.WarnContext(ctx, "retrying request",
					logger.Component("fetch"),
					logger.Method(req.Method),
					logger.URL(req.URL.Redacted()),
					logger.RetryCount(attempt),
					logger.Error(err),
				)
			}
			return retry.RetryableError(err)
		}

		resp = res
		return nil
	})
	if err != nil {
		t.logger.ErrorContext(ctx, "request failed",
			logger.Component("fetch"),
			logger.Method(req.Method),
			logger.URL(req.URL.Redacted()),
			logger.RetryCount(attempt),
			logger.Error(err),
		)
		return nil, err
	}

	return resp, nil
}

// prepare returns the request for the given attempt, replaying the body on retries.
func (t *Transport) prepare(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, ErrBodyNotRewindable
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}

	r := req.Clone(ctx)
	r.Body = body
	return r, nil
}
