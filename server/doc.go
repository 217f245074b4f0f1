// Package server is the transport boundary where results become HTTP
// responses. It runs Gin behind an h2c handler so HTTP/1.1 and cleartext
// HTTP/2 share one port.
//
// Handlers return result.Result values and let Handle or Respond write them:
//
//	engine.GET("/users/:id", server.Handle(func(c *gin.Context) result.Result[User] {
//	    return svc.Get(c.Request.Context(), c.Param("id"))
//	}))
//
// The body is always {"success", "message", "data"}; the status code comes
// from response.StatusFor.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panics become 500 Generic envelopes
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: request logging with duration and status
//   - CORS: cross-origin headers and preflight
//   - Auth: bearer token verification, Unauthorized envelope on rejection
package server
