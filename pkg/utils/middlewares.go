package utils

import "net/http"

type Middleware func(http.Handler) http.Handler

// ApplyMiddlewares wraps handler so the first middleware listed runs first.
func ApplyMiddlewares(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
