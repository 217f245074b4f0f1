package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/auth"
	"github.com/kbukum/resultkit/authz"
	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// Gin context keys set by Auth.
const (
	ContextClaims = "claims"
	ContextUserID = "user_id"
)

// TokenVerifier verifies a bearer token. auth.TokenService implements it.
type TokenVerifier interface {
	Verify(token string) result.Result[*auth.Claims]
}

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	Verifier TokenVerifier
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that requires a valid bearer token. Any
// rejection is written as an Unauthorized envelope. Verified claims are
// stored in the Gin context and the request context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, errors.Unauthorized("Authorization header required"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortWith(c, errors.Unauthorized("Invalid authorization header format"))
			return
		}

		verified := cfg.Verifier.Verify(token)
		if verified.IsFailure() {
			abortWith(c, verified.Err())
			return
		}
		claims := verified.Value()
		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.Subject)
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireRole rejects requests whose claims lack role. It must run after
// Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.RequireClaims(c.Request.Context()).
			Validate(func(cl *auth.Claims) bool { return cl.HasRole(role) }, "Insufficient permissions")
		if claims.IsFailure() {
			// Missing role is reported as Unauthorized; there is no
			// separate forbidden kind.
			abortWith(c, errors.Unauthorized(claims.Message()))
			return
		}
		c.Next()
	}
}

// RequirePermission rejects requests unless one of the claims' roles holds
// permission under checker. It must run after Auth.
func RequirePermission(checker authz.Checker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.RequireClaims(c.Request.Context()).
			Validate(func(cl *auth.Claims) bool { return authz.AnyHas(checker, cl.Roles, permission) }, "Insufficient permissions")
		if claims.IsFailure() {
			abortWith(c, errors.Unauthorized(claims.Message()))
			return
		}
		c.Next()
	}
}
