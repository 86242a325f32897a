// Package router provides a generic HTTP router built on http.ServeMux patterns.
//
// Routes use the standard library pattern syntax, wildcards are read with
// Context.Param:
//
//	r := router.New[*router.Context]()
//	r.Get("/users/{id}", func(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"id": ctx.Param("id")})
//	})
//	http.ListenAndServe(":8080", r)
//
// Router-wide middleware is added with Use before any route is registered.
// With and Group create inline routers whose middleware only applies to the
// routes registered through them:
//
//	r.Use(middleware.RequestID[*router.Context]())
//	r.With(middleware.RequireUser[*router.Context]()).Get("/api/user", userHandler)
//
// Unknown paths, disallowed methods, nil responses, rendering errors and
// panics are reported to the error handler (WithErrorHandler). The default
// handler writes a plain text body using the error's StatusCode() when present.
//
// Custom context types need a factory:
//
//	r := router.New[*app.Context](router.WithContextFactory(app.NewContext))
package router
