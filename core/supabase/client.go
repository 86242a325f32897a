package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/sbauth/core/cookie"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/pkg/fetch"
)

// ClientInfo is sent as X-Client-Info on every auth API call.
const ClientInfo = "sbauth-go/0.1.0"

// Client talks to the auth API on behalf of a single request.
// Sessions live in that request's cookies; nothing is shared between clients.
type Client struct {
	baseURL    string
	key        string
	headers    map[string]string
	httpClient *http.Client
	storage    *cookieStorage
	margin     time.Duration
	jwtSecret  string
	logger     *slog.Logger
	now        func() time.Time

	// mu serializes session loading so a refresh happens at most once per client.
	mu         sync.Mutex
	loaded     bool
	session    *Session
	sessionErr error
}

// NewServerClient creates a client bound to one request's cookies.
func NewServerClient(supabaseURL, key string, opts ServerClientOptions) (*Client, error) {
	if strings.TrimSpace(supabaseURL) == "" {
		return nil, ErrMissingURL
	}
	if strings.TrimSpace(key) == "" {
		return nil, ErrMissingKey
	}
	if opts.Cookies.GetAll == nil || opts.Cookies.SetAll == nil {
		return nil, ErrMissingCookies
	}

	u, err := url.Parse(supabaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, supabaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("supabase"))

	storageKey := opts.StorageKey
	if storageKey == "" {
		storageKey = DefaultStorageKey(u)
	}

	cookieOpts := opts.CookieOptions
	if cookieOpts == (cookie.Options{}) {
		cookieOpts = cookie.DefaultOptions()
	}

	encoding := opts.CookieEncoding
	if encoding == "" {
		encoding = cookie.EncodingBase64URL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = fetch.NewClient(DefaultHTTPTimeout, fetch.WithLogger(log))
	}

	margin := opts.ExpiryMargin
	if margin <= 0 {
		margin = DefaultExpiryMargin
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		key:        key,
		headers:    opts.Headers,
		httpClient: httpClient,
		storage: &cookieStorage{
			key:      storageKey,
			methods:  opts.Cookies,
			options:  cookieOpts,
			encoding: encoding,
		},
		margin:    margin,
		jwtSecret: opts.JWTSecret,
		logger:    log,
		now:       now,
	}, nil
}

// DefaultStorageKey derives the cookie name from the project ref,
// the first label of the service host.
func DefaultStorageKey(u *url.URL) string {
	ref, _, _ := strings.Cut(u.Hostname(), ".")
	return "sb-" + ref + "-auth-token"
}

// StorageKey returns the cookie name the session is stored under.
func (c *Client) StorageKey() string {
	return c.storage.key
}

// do performs an auth API call. token falls back to the public key.
// Non-2xx answers become *AuthError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	endpoint := c.baseURL + "/auth/v1" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("supabase: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("supabase: build request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if token == "" {
		token = c.key
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Client-Info", ClientInfo)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return eb.toAuthError(resp.StatusCode)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("supabase: decode response: %w", err)
	}
	return nil
}
