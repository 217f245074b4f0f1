package auth

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// Message returned for every rejected token. The underlying parse error is
// not exposed to clients.
const invalidTokenMessage = "Invalid or expired token"

// Claims is the token payload.
type Claims struct {
	gojwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the claims carry role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenService signs and verifies access tokens.
type TokenService struct {
	cfg Config
	now func() time.Time
}

// NewTokenService creates a TokenService. Defaults are applied to cfg.
func NewTokenService(cfg *Config) (*TokenService, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	return &TokenService{cfg: *cfg, now: time.Now}, nil
}

// Issue creates a signed access token for subject. Signing failures are
// Generic failures.
func (s *TokenService) Issue(subject string, roles ...string) result.Result[string] {
	if subject == "" {
		return result.ValidationError[string]("subject is required")
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
		Roles: roles,
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return result.Failure[string](errors.Generic(fmt.Sprintf("sign token: %v", err)))
	}
	return result.Success(signed)
}

// Verify parses token and checks its signature, expiry and issuer. Any
// rejection is an Unauthorized failure.
func (s *TokenService) Verify(token string) result.Result[*Claims] {
	if token == "" {
		return result.UnauthorizedError[*Claims]("Authorization token required")
	}
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, s.keyFunc, s.parserOptions()...)
	if err != nil || !parsed.Valid {
		return result.UnauthorizedError[*Claims](invalidTokenMessage)
	}
	return result.Success(claims)
}

func (s *TokenService) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *TokenService) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
