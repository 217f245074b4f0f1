// Package auth issues and verifies JWT access tokens and hashes passwords.
//
// Every operation that can be refused returns a result.Result whose failure
// carries errors.KindUnauthorized (bad credentials, invalid or expired
// token) or errors.KindValidation (unacceptable password input), so
// handlers can pass it straight to the response mapper.
//
//	auth:
//	  secret: "change-me"
//	  issuer: "resultd"
//	  access_token_ttl: "15m"
//	  bcrypt_cost: 12
//
// Usage:
//
//	svc, err := auth.NewTokenService(cfg)
//	token := svc.Issue("user-123", "admin")
//	claims := svc.Verify(token.Value())
package auth
