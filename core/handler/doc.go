// Package handler defines the types shared by the router, middleware and
// response packages.
//
// Handlers receive a typed context and return a Response instead of writing
// directly, which lets middleware decorate the response before it is rendered:
//
//	func hello(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"hello": "world"})
//	}
//
// Middleware wraps a HandlerFunc:
//
//	func Timing[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				start := time.Now()
//				resp := next(ctx)
//				return func(w http.ResponseWriter, r *http.Request) error {
//					w.Header().Set("X-Elapsed", time.Since(start).String())
//					return resp(w, r)
//				}
//			}
//		}
//	}
//
// Any context type satisfying Context can be used; router.Context is the default.
package handler
