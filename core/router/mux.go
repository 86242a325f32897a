package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/logger"
)

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// mux implements Router on top of http.ServeMux.
// Inline routers created by With and Group share the root's ServeMux.
type mux[C handler.Context] struct {
	root         *mux[C]
	parent       *mux[C]
	inline       bool
	serveMux     *http.ServeMux
	routes       []Route
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		serveMux:     http.NewServeMux(),
		errorHandler: defaultErrorHandler[C],
		logger:       logger.Discard(),
	}
	m.root = m

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		var zero C
		if _, ok := any(zero).(*Context); !ok {
			panic(ErrNoContextFactory)
		}
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			return any(NewContext(w, r)).(C)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	root := m.root
	ww := newResponseWriter(w)

	if _, pattern := root.serveMux.Handler(r); pattern == "" {
		root.unmatched(ww, r)
		return
	}
	root.serveMux.ServeHTTP(ww, r)
}

// unmatched routes ServeMux's 404 and 405 answers through the error handler.
func (m *mux[C]) unmatched(w *responseWriter, r *http.Request) {
	h, _ := m.serveMux.Handler(r)
	rec := &discardWriter{header: make(http.Header)}
	h.ServeHTTP(rec, r)

	ctx := m.newContext(w, r)
	if rec.status == http.StatusMethodNotAllowed {
		if allow := rec.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		m.errorHandler(ctx, ErrMethodNotAllowed)
		return
	}
	m.errorHandler(ctx, ErrNotFound)
}

func (m *mux[C]) dispatch(w http.ResponseWriter, r *http.Request, h handler.HandlerFunc[C]) {
	ww := newResponseWriter(w)
	ctx := m.newContext(ww, r)

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		perr := &panicError{value: p, stack: debug.Stack()}

		if ww.Written() {
			m.logger.ErrorContext(r.Context(), "panic after response written",
				slog.Any("value", perr.value),
				slog.String("stack", string(perr.stack)),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(ww.Status()),
			)
			return
		}
		m.errorHandler(ctx, perr)
	}()

	if len(m.middlewares) > 0 {
		h = chain(m.middlewares, h)
	}

	response := h(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	// ctx.Request carries values stored by middleware.
	if err := response(ww, ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
	}
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	seen := make(map[string]bool, len(methods))
	for _, method := range methods {
		method = strings.ToUpper(method)
		if !knownMethods[method] {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if seen[method] {
			continue
		}
		seen[method] = true
		m.handle(method, pattern, h)
	}
}

func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if !m.inline && len(m.routes) > 0 {
		panic(ErrRoutesDefined)
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		root:         m.root,
		parent:       m,
		inline:       true,
		middlewares:  slices.Clone(middlewares),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	return slices.Clone(m.root.routes)
}

func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	// Inline middleware is bound at registration; router-wide middleware at dispatch.
	var inline []handler.Middleware[C]
	for curr := m; curr != nil && curr.inline; curr = curr.parent {
		inline = append(slices.Clone(curr.middlewares), inline...)
	}
	h := fn
	if len(inline) > 0 {
		h = chain(inline, fn)
	}

	full := pattern
	if method != "" {
		full = method + " " + pattern
	}

	root := m.root
	root.serveMux.HandleFunc(full, func(w http.ResponseWriter, r *http.Request) {
		root.dispatch(w, r, h)
	})
	root.routes = append(root.routes, Route{Method: method, Pattern: pattern})
}

// chain wraps endpoint so that middlewares[0] runs first.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
