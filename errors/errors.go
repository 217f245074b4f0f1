package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrInvalidArgument is returned (or wrapped) when a constructor receives an
// argument outside its domain.
var ErrInvalidArgument = stderrors.New("invalid argument")

// Error is an immutable failure of a single Kind.
type Error struct {
	kind    Kind
	message string
}

// New creates an Error of the given kind. It fails with ErrInvalidArgument if
// kind is not part of the taxonomy.
func New(kind Kind, message string) (*Error, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown error kind %d", ErrInvalidArgument, int(kind))
	}
	return &Error{kind: kind, message: message}, nil
}

// Kind returns the variant tag.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the human-readable message. It may be empty.
func (e *Error) Message() string { return e.message }

// Code returns the machine-readable code of the error's kind.
func (e *Error) Code() ErrorCode { return e.kind.Code() }

// Error returns the string representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind.Code(), e.message)
}

// Is reports whether target is an *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return t.kind == e.kind && t.message == e.message
}

// --- Constructors ---

// Generic creates an error without a more specific category.
func Generic(message string) *Error {
	return &Error{kind: KindGeneric, message: message}
}

// Validation creates an error for rejected input.
func Validation(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

// Unauthorized creates an error for missing or invalid credentials.
func Unauthorized(message string) *Error {
	return &Error{kind: KindUnauthorized, message: message}
}

// NotFound creates an error for a resource that does not exist.
func NotFound(message string) *Error {
	return &Error{kind: KindNotFound, message: message}
}

// AlreadyExists creates an error for a resource that already exists.
func AlreadyExists(message string) *Error {
	return &Error{kind: KindAlreadyExists, message: message}
}

// --- Bridging ---

// As returns the first *Error in err's chain. A typed nil *Error is not
// a match.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// From converts any error into an *Error. An *Error found in the chain is
// returned as is; anything else becomes a Generic error carrying err's text.
// From(nil) returns nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	if e, ok := err.(*Error); ok && e == nil {
		return nil
	}
	return Generic(err.Error())
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.kind == kind
}
