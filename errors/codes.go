package errors

import "fmt"

// Kind is the variant tag of an Error.
type Kind int

const (
	// KindGeneric covers any failure without a more specific category.
	KindGeneric Kind = iota
	// KindValidation indicates the input was rejected.
	KindValidation
	// KindUnauthorized indicates missing or invalid credentials.
	KindUnauthorized
	// KindNotFound indicates the requested resource does not exist.
	KindNotFound
	// KindAlreadyExists indicates the resource already exists.
	KindAlreadyExists
)

var kinds = []Kind{
	KindGeneric,
	KindValidation,
	KindUnauthorized,
	KindNotFound,
	KindAlreadyExists,
}

// Kinds returns every kind of the taxonomy in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k belongs to the taxonomy.
func (k Kind) Valid() bool {
	return k >= KindGeneric && k <= KindAlreadyExists
}

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeInternal is the code of Generic errors.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeInvalidInput is the code of Validation errors.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnauthorized is the code of Unauthorized errors.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeNotFound is the code of NotFound errors.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists is the code of AlreadyExists errors.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Code returns the machine-readable code for the kind. Unknown kinds report
// ErrCodeInternal.
func (k Kind) Code() ErrorCode {
	switch k {
	case KindValidation:
		return ErrCodeInvalidInput
	case KindUnauthorized:
		return ErrCodeUnauthorized
	case KindNotFound:
		return ErrCodeNotFound
	case KindAlreadyExists:
		return ErrCodeAlreadyExists
	default:
		return ErrCodeInternal
	}
}
