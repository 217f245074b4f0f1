package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

// InvalidCredentialsMessage is the failure message for a password mismatch.
const InvalidCredentialsMessage = "Invalid credentials"

// Hasher hashes and checks passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs outside bcrypt's range use the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword returns the bcrypt hash of plain. Passwords outside the
// accepted length are Validation failures.
func (h *Hasher) HashPassword(plain string) result.Result[string] {
	switch {
	case len(plain) < minPasswordLength:
		return result.ValidationError[string](fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	case len(plain) > maxPasswordLength:
		return result.ValidationError[string](fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return result.Failure[string](errors.Generic(fmt.Sprintf("hash password: %v", err)))
	}
	return result.Success(string(hash))
}

// CheckPassword succeeds with an absent value when plain matches hash and
// fails with Unauthorized otherwise.
func (h *Hasher) CheckPassword(hash, plain string) result.Result[struct{}] {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return result.UnauthorizedError[struct{}](InvalidCredentialsMessage)
	}
	return result.Success(struct{}{})
}
