package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Struct validates s using `validate` struct tags. It returns nil when s is
// valid, otherwise a Validation error whose message describes the first
// violated field.
func Struct(s any) *errors.Error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	if verr := FromError(err); verr != nil {
		return verr
	}
	return errors.Validation("validation failed")
}

// Validated returns a success carrying v when it passes struct validation.
func Validated[T any](v T) result.Result[T] {
	if err := Struct(v); err != nil {
		return result.Failure[T](err)
	}
	return result.Success(v)
}

// Check validates the value of a successful result. Failures and absent
// values pass through unchanged.
func Check[T any](r result.Result[T]) result.Result[T] {
	return result.FlatMap(r, func(v T) result.Result[T] {
		if err := Struct(v); err != nil {
			return result.Failure[T](err)
		}
		return r
	})
}

// FromError converts validator.ValidationErrors, including those produced by
// gin's binding, into a Validation error for the first violated field. Other
// errors yield nil.
func FromError(err error) *errors.Error {
	fields := FieldErrors(err)
	if len(fields) == 0 {
		return nil
	}
	return errors.Validation(fields[0].String())
}

// FieldErrors lists every violation carried by err in declaration order.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field:   toSnakeCase(e.Field()),
			Message: formatValidationError(e),
		})
	}
	return out
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r + 32)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
