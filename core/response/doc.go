// Package response builds handler.Response values: plain text, HTML, JSON,
// templ components, redirects and errors.
//
//	r.Get("/api/user", func(ctx *router.Context) handler.Response {
//		user, ok := middleware.GetSupabaseUser(ctx)
//		if !ok {
//			return response.Error(response.ErrUnauthorized)
//		}
//		return response.WithNoStore(response.JSON(user))
//	})
//
// ErrorHandler and JSONErrorHandler are router error handlers that map errors
// to HTTPError values, honouring a StatusCode() int method on the error.
package response
