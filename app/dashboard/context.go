package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/sbauth/core/supabase"
	"github.com/dmitrymomot/sbauth/middleware"
)

// Context is the dashboard's request context. It exposes the identity
// resolved by the Supabase middleware.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns a path wildcard of the matched route.
func (c *Context) Param(key string) string {
	return c.r.PathValue(key)
}

// Auth returns the request's auth client, nil when the middleware was skipped.
func (c *Context) Auth() *supabase.Client {
	client, _ := middleware.GetSupabaseClient(c)
	return client
}

// Session returns the current session or nil when signed out.
func (c *Context) Session() *supabase.Session {
	session, _ := middleware.GetSupabaseSession(c)
	return session
}

// User returns the verified user or nil when signed out.
func (c *Context) User() *supabase.User {
	user, _ := middleware.GetSupabaseUser(c)
	return user
}
