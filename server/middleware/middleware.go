package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/response"
	"github.com/kbukum/resultkit/result"
)

// Middleware wraps an http.Handler. It applies to every route on the root
// ServeMux, including non-Gin mounts.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// GinWrap adapts a Middleware for use in a Gin middleware chain.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !called {
			// The middleware answered by itself (e.g. preflight).
			c.Abort()
		}
	}
}

// abortWith writes err as a failure envelope and stops the chain.
func abortWith(c *gin.Context, err *errors.Error) {
	status, body := response.Map(result.Failure[any](err))
	c.AbortWithStatusJSON(status, body)
}
