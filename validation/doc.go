// Package validation turns input checks into Validation failures.
//
// Struct tag validation uses go-playground/validator. Field names come from
// json tags, and only the first violated field is reported.
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	r := validation.Validated(cmd) // Result[CreateUser]
//
// Programmatic validation collects errors fluently:
//
//	v := validation.New().Required("name", name).MaxLength("name", name, 64)
//	r := validation.Apply(v, name)
package validation
