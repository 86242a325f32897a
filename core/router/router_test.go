package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/router"
)

func text(s string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(s))
		return err
	}
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestMethodRouting(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/items", func(ctx *router.Context) handler.Response { return text("list") })
	r.Post("/items", func(ctx *router.Context) handler.Response { return text("create") })
	r.Put("/items/{id}", func(ctx *router.Context) handler.Response { return text("put " + ctx.Param("id")) })
	r.Patch("/items/{id}", func(ctx *router.Context) handler.Response { return text("patch " + ctx.Param("id")) })
	r.Delete("/items/{id}", func(ctx *router.Context) handler.Response { return text("delete " + ctx.Param("id")) })
	r.Handle("/any", func(ctx *router.Context) handler.Response { return text(ctx.Request().Method) })
	r.Method("/multi", func(ctx *router.Context) handler.Response { return text("multi") }, "get", "POST", "GET")

	tests := []struct {
		method, target, want string
	}{
		{http.MethodGet, "/items", "list"},
		{http.MethodPost, "/items", "create"},
		{http.MethodPut, "/items/7", "put 7"},
		{http.MethodPatch, "/items/7", "patch 7"},
		{http.MethodDelete, "/items/7", "delete 7"},
		{http.MethodOptions, "/any", http.MethodOptions},
		{http.MethodPost, "/multi", "multi"},
	}
	for _, tt := range tests {
		w := serve(r, tt.method, tt.target)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.target)
		assert.Equal(t, tt.want, w.Body.String())
	}

	assert.Len(t, r.Routes(), 8)
	assert.Equal(t, router.Route{Method: http.MethodGet, Pattern: "/items"}, r.Routes()[0])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/items", func(ctx *router.Context) handler.Response { return text("list") })

	w := serve(r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/items")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Header().Get("Allow"), http.MethodGet)
}

func TestCustomErrorHandler(t *testing.T) {
	t.Parallel()

	var got []error
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
		got = append(got, err)
		ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
	}))
	errBoom := errors.New("boom")
	r.Get("/fail", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error { return errBoom }
	})
	r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

	assert.Equal(t, http.StatusTeapot, serve(r, http.MethodGet, "/fail").Code)
	assert.Equal(t, http.StatusTeapot, serve(r, http.MethodGet, "/nil").Code)
	assert.Equal(t, http.StatusTeapot, serve(r, http.MethodGet, "/missing").Code)

	require.Len(t, got, 3)
	assert.ErrorIs(t, got[0], errBoom)
	assert.ErrorIs(t, got[1], router.ErrNilResponse)
	assert.ErrorIs(t, got[2], router.ErrNotFound)
}

type statusErr struct{}

func (statusErr) Error() string   { return "conflict" }
func (statusErr) StatusCode() int { return http.StatusConflict }

func TestDefaultErrorHandlerStatusCode(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error { return statusErr{} }
	})

	w := serve(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "conflict")
}

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	var panicErr router.PanicError
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
		errors.As(err, &panicErr)
		ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
	}))
	r.Get("/panic", func(ctx *router.Context) handler.Response { panic("kaboom") })

	w := serve(r, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, panicErr)
	assert.Equal(t, "kaboom", panicErr.Value())
	assert.NotEmpty(t, panicErr.Stack())
}

func TestPanicAfterWriteKeepsResponse(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusAccepted)
			panic("late")
		}
	})

	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodGet, "/").Code)
}

func record(trace *[]string, name string) handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			*trace = append(*trace, name)
			return next(ctx)
		}
	}
}

func TestMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	r := router.New[*router.Context](router.WithMiddleware(record(&trace, "option")))
	r.Use(record(&trace, "use"))

	r.Get("/plain", func(ctx *router.Context) handler.Response { return text("plain") })
	r.With(record(&trace, "with")).Get("/with", func(ctx *router.Context) handler.Response { return text("with") })
	r.Group(func(g router.Router[*router.Context]) {
		g.Use(record(&trace, "group"))
		g.With(record(&trace, "nested")).Get("/nested", func(ctx *router.Context) handler.Response { return text("nested") })
	})

	serve(r, http.MethodGet, "/plain")
	assert.Equal(t, []string{"option", "use"}, trace)

	trace = nil
	serve(r, http.MethodGet, "/with")
	assert.Equal(t, []string{"option", "use", "with"}, trace)

	trace = nil
	serve(r, http.MethodGet, "/nested")
	assert.Equal(t, []string{"option", "use", "group", "nested"}, trace)
}

func TestUseAfterRoutesPanics(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response { return text("") })
	assert.PanicsWithValue(t, router.ErrRoutesDefined, func() {
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] { return next })
	})
}

func TestInvalidRegistrations(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	h := func(ctx *router.Context) handler.Response { return text("") }

	assert.Panics(t, func() { r.Get("no-slash", h) })
	assert.Panics(t, func() { r.Method("/x", h) })
	assert.Panics(t, func() { r.Method("/x", h, "FETCH") })
}

type ctxKey struct{}

func TestContextValuesReachResponse(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.SetValue(ctxKey{}, "stored")
			return next(ctx)
		}
	})
	r.Get("/", func(ctx *router.Context) handler.Response {
		assert.Equal(t, "stored", ctx.Value(ctxKey{}))
		return func(w http.ResponseWriter, r *http.Request) error {
			v, _ := r.Context().Value(ctxKey{}).(string)
			_, err := w.Write([]byte(v))
			return err
		}
	})

	assert.Equal(t, "stored", serve(r, http.MethodGet, "/").Body.String())
}

type customContext struct {
	*router.Context
	tenant string
}

func TestCustomContextFactory(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, router.ErrNoContextFactory, func() {
		router.New[*customContext]()
	})

	r := router.New[*customContext](router.WithContextFactory[*customContext](func(w http.ResponseWriter, r *http.Request) *customContext {
		return &customContext{Context: router.NewContext(w, r), tenant: strings.TrimPrefix(r.Host, "www.")}
	}))
	r.Get("/", func(ctx *customContext) handler.Response { return text(ctx.tenant) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "www.acme.test"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "acme.test", w.Body.String())
}
