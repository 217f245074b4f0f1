package response

import (
	"net/http"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// Envelope is the JSON body sent for every result.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// Value returns the payload, or the zero value of T when absent.
func (e Envelope[T]) Value() T {
	if e.Data == nil {
		var zero T
		return zero
	}
	return *e.Data
}

// Map converts r into a status code and envelope.
func Map[T any](r result.Result[T]) (int, Envelope[T]) {
	if r.IsFailure() {
		err := r.Err()
		return StatusFor(err.Kind()), FailureEnvelope[T](err.Message())
	}
	if v, ok := r.Get(); ok {
		return http.StatusOK, SuccessEnvelope(v, r.Message())
	}
	return http.StatusOK, Envelope[T]{Success: true, Message: r.Message()}
}

// StatusFor returns the HTTP status code for an error kind. Every kind in
// errors.Kinds must have a case here.
func StatusFor(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindUnauthorized:
		return http.StatusUnauthorized
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindAlreadyExists:
		return http.StatusConflict
	case errors.KindGeneric:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// SuccessEnvelope builds a success envelope carrying data.
func SuccessEnvelope[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Message: message, Data: &data}
}

// FailureEnvelope builds a failure envelope without data.
func FailureEnvelope[T any](message string) Envelope[T] {
	return Envelope[T]{Success: false, Message: message}
}

// ErrorResponse maps any Go error the same way a failed result is mapped.
// Errors that are not *errors.Error are reported as Generic.
func ErrorResponse(err error) (int, Envelope[any]) {
	e := errors.From(err)
	if e == nil {
		e = errors.Generic("")
	}
	return Map(result.Failure[any](e))
}
