package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/response"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/validation"
)

// Respond writes r as a JSON envelope with the mapped status code.
func Respond[T any](c *gin.Context, r result.Result[T]) {
	status, body := response.Map(r)
	c.JSON(status, body)
}

// RespondError writes err the way a failed result is written. Binding and
// validator errors become Validation failures for the first violated field;
// other non-*errors.Error values become Generic failures.
func RespondError(c *gin.Context, err error) {
	Respond(c, result.Failure[any](errorFrom(err)))
}

// Handle adapts a result-returning function into a Gin handler.
func Handle[T any](fn func(c *gin.Context) result.Result[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		Respond(c, fn(c))
	}
}

// Bind decodes the JSON request body into T and runs both gin `binding`
// and `validate` tag checks.
func Bind[T any](c *gin.Context) result.Result[T] {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		return result.Failure[T](errorFrom(err))
	}
	return validation.Validated(v)
}

func errorFrom(err error) *errors.Error {
	if errors.From(err) == nil {
		return errors.Generic("")
	}
	if e, ok := errors.As(err); ok {
		return e
	}
	if e := validation.FromError(err); e != nil {
		return e
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &sizeErr):
		return errors.Validation("request body too large")
	case stderrors.Is(err, io.EOF):
		return errors.Validation("request body is required")
	case stderrors.As(err, &syntaxErr), stderrors.As(err, &typeErr), stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.Validation("malformed request body")
	}
	return errors.Generic(err.Error())
}
