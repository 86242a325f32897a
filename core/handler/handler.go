package handler

import "net/http"

// Response renders an HTTP response: headers, status and body.
// A returned error is passed to the router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request through a typed context.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler handles errors returned while serving a request.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
