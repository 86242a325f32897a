package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/sbauth/pkg/fetch"
)

// Healthcheck returns a readiness check that calls GET /auth/v1/health.
// A nil httpClient uses a retrying client with DefaultHTTPTimeout.
func Healthcheck(supabaseURL, key string, httpClient *http.Client) func(context.Context) error {
	if httpClient == nil {
		httpClient = fetch.NewClient(DefaultHTTPTimeout)
	}
	c := &Client{
		baseURL:    strings.TrimRight(supabaseURL, "/"),
		key:        key,
		httpClient: httpClient,
	}

	return func(ctx context.Context) error {
		if err := c.do(ctx, http.MethodGet, "/health", nil, "", nil, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
