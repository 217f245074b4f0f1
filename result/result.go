package result

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/resultkit/errors"
)

// Result holds either a success value (possibly absent) with a message, or a
// failure error. The zero value is an absent-value success with no message;
// use the constructors instead.
type Result[T any] struct {
	value    T
	hasValue bool
	message  string
	err      *errors.Error
}

// Success creates a successful result using the process-wide success message.
func Success[T any](value T) Result[T] {
	return SuccessWithMessage(value, CurrentMessages().SuccessMessage())
}

// SuccessWithMessage creates a successful result with an explicit message.
func SuccessWithMessage[T any](value T, message string) Result[T] {
	return Result[T]{
		value:    value,
		hasValue: !isNil(value),
		message:  message,
	}
}

// SuccessWith creates a successful result using the success message of m.
func SuccessWith[T any](m Messages, value T) Result[T] {
	if m == nil {
		m = CurrentMessages()
	}
	return SuccessWithMessage(value, m.SuccessMessage())
}

// SuccessCtx creates a successful result using the provider carried by ctx.
func SuccessCtx[T any](ctx context.Context, value T) Result[T] {
	return SuccessWith(MessagesFrom(ctx), value)
}

// Empty creates a successful result without a value.
func Empty[T any]() Result[T] {
	return Result[T]{message: CurrentMessages().SuccessMessage()}
}

// Failure creates a failed result. Its message is err.Message().
// It panics with an error wrapping errors.ErrInvalidArgument if err is nil.
func Failure[T any](err *errors.Error) Result[T] {
	if err == nil {
		panic(fmt.Errorf("%w: failure requires a non-nil error", errors.ErrInvalidArgument))
	}
	return Result[T]{err: err, message: err.Message()}
}

// FailureMessage creates a failed result with a Generic error.
func FailureMessage[T any](message string) Result[T] {
	return Failure[T](errors.Generic(message))
}

// Fail converts any Go error into a failed result, keeping the kind of an
// *errors.Error found in the chain. Fail(nil) returns an absent-value success,
// and so does an error interface holding a nil *errors.Error.
func Fail[T any](err error) Result[T] {
	e := errors.From(err)
	if e == nil {
		return Empty[T]()
	}
	return Failure[T](e)
}

// From builds a result from the conventional (value, error) pair. A nil
// *errors.Error held in err counts as no error.
func From[T any](value T, err error) Result[T] {
	if e := errors.From(err); e != nil {
		return Failure[T](e)
	}
	return Success(value)
}

// ValidationError creates a failed result of kind Validation.
func ValidationError[T any](message string) Result[T] {
	return Failure[T](errors.Validation(message))
}

// UnauthorizedError creates a failed result of kind Unauthorized.
func UnauthorizedError[T any](message string) Result[T] {
	return Failure[T](errors.Unauthorized(message))
}

// NotFoundError creates a failed result of kind NotFound.
func NotFoundError[T any](message string) Result[T] {
	return Failure[T](errors.NotFound(message))
}

// AlreadyExistsError creates a failed result of kind AlreadyExists.
func AlreadyExistsError[T any](message string) Result[T] {
	return Failure[T](errors.AlreadyExists(message))
}

// IsSuccess reports whether r is a success.
func (r Result[T]) IsSuccess() bool { return r.err == nil }

// IsFailure reports whether r is a failure.
func (r Result[T]) IsFailure() bool { return r.err != nil }

// HasValue reports whether r is a success carrying a value.
func (r Result[T]) HasValue() bool { return r.err == nil && r.hasValue }

// Value returns the success value, or the zero value of T when absent or
// failed.
func (r Result[T]) Value() T { return r.value }

// Get returns the success value and whether it is present.
func (r Result[T]) Get() (T, bool) { return r.value, r.HasValue() }

// Message returns the success message or the failure's error message.
func (r Result[T]) Message() string { return r.message }

// Err returns the failure error, or nil for a success.
func (r Result[T]) Err() *errors.Error { return r.err }

// ShouldAbort reports whether an enclosing unit of work must be rolled back.
func (r Result[T]) ShouldAbort() bool { return r.err != nil }

// String renders the result for logs.
func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Failure(%s)", r.err.Error())
	}
	if !r.hasValue {
		return "Success(<absent>)"
	}
	return fmt.Sprintf("Success(%v)", r.value)
}

// isNil reports whether v holds a nil reference.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
