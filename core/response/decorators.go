package response

import (
	"net/http"

	"github.com/dmitrymomot/sbauth/core/handler"
)

// WithHeaders sets headers before response is rendered.
func WithHeaders(response handler.Response, headers map[string]string) handler.Response {
	if response == nil || len(headers) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return response(w, r)
	}
}

// NoStoreHeaders keep responses that depend on auth cookies out of shared caches.
var NoStoreHeaders = map[string]string{
	"Cache-Control": "private, no-cache, no-store, must-revalidate, max-age=0",
	"Expires":       "0",
	"Pragma":        "no-cache",
}

// WithNoStore marks response as uncacheable.
func WithNoStore(response handler.Response) handler.Response {
	return WithHeaders(response, NoStoreHeaders)
}
