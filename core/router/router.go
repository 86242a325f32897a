package router

import (
	"net/http"

	"github.com/dmitrymomot/sbauth/core/handler"
)

// Router registers typed handlers on top of http.ServeMux patterns
// ("GET /users/{id}", "/static/{path...}").
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])

	// Handle registers h for every method.
	Handle(pattern string, h handler.HandlerFunc[C])
	// Method registers h for the listed methods.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Use appends router-wide middleware. It must be called before any route is registered.
	Use(middlewares ...handler.Middleware[C])
	// With returns an inline router whose routes also run the given middleware.
	With(middlewares ...handler.Middleware[C]) Router[C]
	// Group calls fn with an inline router sharing the parent's routes.
	Group(fn func(r Router[C])) Router[C]
}

// Routes provides route introspection.
type Routes interface {
	Routes() []Route
}

// Route is a registered method and pattern. Method is empty for Handle routes.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux(opts...)
}
