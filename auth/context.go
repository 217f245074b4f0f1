package auth

import (
	"context"

	"github.com/kbukum/resultkit/result"
)

type claimsKey struct{}

// WithClaims stores verified claims in ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the claims stored in ctx, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// RequireClaims returns the claims stored in ctx or an Unauthorized failure.
func RequireClaims(ctx context.Context) result.Result[*Claims] {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return result.UnauthorizedError[*Claims]("Authentication required")
	}
	return result.Success(claims)
}
