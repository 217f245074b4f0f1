package database

import (
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// Message used for unique-constraint violations when no resource is named.
const alreadyExistsMessage = "Resource already exists"

// IsConnectionError reports whether err looks like a lost or refused
// connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"database is closed",
		"driver: bad connection",
		"unable to open database",
	} {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// IsUniqueViolation reports whether err is a duplicate-key error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}

// ErrorFrom converts a database error into an *errors.Error:
// record-not-found is NotFound, a unique violation is AlreadyExists and
// anything else is Generic. ErrorFrom(nil) returns nil.
func ErrorFrom(err error, resource string) *errors.Error {
	if err == nil {
		return nil
	}
	if e, ok := errors.As(err); ok {
		return e
	}
	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound(subject(resource) + " not found")
	case IsUniqueViolation(err):
		if resource == "" {
			return errors.AlreadyExists(alreadyExistsMessage)
		}
		return errors.AlreadyExists(fmt.Sprintf("%s already exists", subject(resource)))
	case IsConnectionError(err):
		return errors.Generic("Database is temporarily unavailable. Please try again.")
	default:
		return errors.Generic(err.Error())
	}
}

// Fail returns a failed result converted from a database error.
func Fail[T any](err error, resource string) result.Result[T] {
	return result.Failure[T](ErrorFrom(err, resource))
}

// From wraps a value and a database error into a result.
func From[T any](v T, err error, resource string) result.Result[T] {
	if err != nil {
		return Fail[T](err, resource)
	}
	return result.Success(v)
}

func subject(resource string) string {
	if resource == "" {
		return "Resource"
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}
