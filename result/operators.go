package result

import "github.com/kbukum/resultkit/errors"

// Map applies fn to the value of a success. The mapped result carries the
// process-wide success message, not r's message.
//
// A failure passes through with the same error. A success without a value
// stays a success without a value and keeps its message. In both cases fn is
// not called.
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	if r.HasValue() {
		return Success(fn(r.value))
	}
	return passThrough[T, R](r)
}

// FlatMap applies fn to the value of a success and returns its result as is.
// Failures and absent values pass through like Map.
func FlatMap[T, R any](r Result[T], fn func(T) Result[R]) Result[R] {
	if r.HasValue() {
		return fn(r.value)
	}
	return passThrough[T, R](r)
}

// passThrough retypes a failure or an absent-value success.
func passThrough[T, R any](r Result[T]) Result[R] {
	if r.err != nil {
		return Result[R]{err: r.err, message: r.message}
	}
	return Result[R]{message: r.message}
}

// Validate turns a success whose value fails pred into a Validation failure
// with message. Failures and absent values are returned unchanged without
// calling pred.
func (r Result[T]) Validate(pred func(T) bool, message string) Result[T] {
	if !r.HasValue() {
		return r
	}
	if !pred(r.value) {
		return Failure[T](errors.Validation(message))
	}
	return r
}

// Filter is an alias of Validate.
func (r Result[T]) Filter(pred func(T) bool, message string) Result[T] {
	return r.Validate(pred, message)
}

// OnSuccess calls fn with the value of a success that has one and returns r.
// A panic in fn propagates to the caller.
func (r Result[T]) OnSuccess(fn func(T)) Result[T] {
	if r.HasValue() {
		fn(r.value)
	}
	return r
}

// OnFailure calls fn with the error of a failure and returns r.
// A panic in fn propagates to the caller.
func (r Result[T]) OnFailure(fn func(*errors.Error)) Result[T] {
	if r.err != nil {
		fn(r.err)
	}
	return r
}

// OrElse returns r if it is a success, otherwise alternative.
func (r Result[T]) OrElse(alternative Result[T]) Result[T] {
	if r.err == nil {
		return r
	}
	return alternative
}

// OrElseGet returns the success value of r, or the value produced by
// supplier if r is a failure. supplier is called at most once.
func (r Result[T]) OrElseGet(supplier func() T) T {
	if r.err == nil {
		return r.value
	}
	return supplier()
}
