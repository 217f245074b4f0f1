package validation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

type createUser struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Age       int    `json:"age" validate:"omitempty,min=18"`
	Role      string `json:"role" validate:"omitempty,oneof=admin user"`
	AvatarURL string `validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   createUser
		wantMsg string
	}{
		{"valid", createUser{Name: "Ann", Email: "ann@example.com"}, ""},
		{"missing name reported first", createUser{Email: "bad"}, "name is required"},
		{"short name", createUser{Name: "A", Email: "a@example.com"}, "name must be at least 2 characters"},
		{"bad email", createUser{Name: "Ann", Email: "nope"}, "email must be a valid email address"},
		{"numeric min", createUser{Name: "Ann", Email: "a@example.com", Age: 3}, "age must be at least 18"},
		{"oneof", createUser{Name: "Ann", Email: "a@example.com", Role: "root"}, "role must be one of: admin user"},
		{"snake case fallback", createUser{Name: "Ann", Email: "a@example.com", AvatarURL: "::"}, "avatar_u_r_l must be a valid URL"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.input)
			if tc.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Kind() != errors.KindValidation {
				t.Errorf("expected validation kind, got %v", err.Kind())
			}
			if err.Message() != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, err.Message())
			}
		})
	}
}

func TestStructNonStruct(t *testing.T) {
	err := Struct(42)
	if err == nil || err.Message() != "validation failed" {
		t.Fatalf("expected generic validation failure, got %v", err)
	}
}

func TestValidated(t *testing.T) {
	ok := Validated(createUser{Name: "Ann", Email: "ann@example.com"})
	if !ok.HasValue() || ok.Value().Name != "Ann" {
		t.Fatalf("expected success, got %v", ok)
	}

	bad := Validated(createUser{Name: "Ann"})
	if !errors.IsKind(bad.Err(), errors.KindValidation) {
		t.Fatalf("expected validation failure, got %v", bad)
	}
}

func TestCheck(t *testing.T) {
	failed := result.NotFoundError[createUser]("no such user")
	if got := Check(failed); got.Err().Kind() != errors.KindNotFound {
		t.Errorf("failure must pass through, got %v", got)
	}

	var nilUser *createUser
	absent := result.Success(nilUser)
	if got := Check(absent); !got.IsSuccess() || got.HasValue() {
		t.Errorf("absent value must pass through, got %v", got)
	}

	valid := result.SuccessWithMessage(createUser{Name: "Ann", Email: "a@example.com"}, "loaded")
	if got := Check(valid); got.Message() != "loaded" {
		t.Errorf("valid result must be returned unchanged, got %v", got)
	}

	invalid := result.Success(createUser{Name: "Ann"})
	if got := Check(invalid); got.Message() != "email is required" {
		t.Errorf("unexpected message %q", got.Message())
	}
}

func TestFromErrorIgnoresOtherErrors(t *testing.T) {
	if FromError(errors.Generic("x")) != nil {
		t.Error("expected nil for non-validation error")
	}
	if FieldErrors(nil) != nil {
		t.Error("expected no field errors for nil")
	}
}

func TestValidatorChain(t *testing.T) {
	v := New().
		Required("name", "").
		MinLength("password", "abc", 8).
		MaxLength("bio", "toolong", 3).
		Range("age", 5, 18, 120).
		Pattern("code", "abc", `^\d+$`).
		OneOf("role", "root", []string{"admin", "user"}).
		Custom(false, "terms", "must be accepted")

	if len(v.Errors()) != 7 {
		t.Fatalf("expected 7 errors, got %d: %v", len(v.Errors()), v.Errors())
	}
	err := v.Err()
	if err == nil || err.Message() != "name is required" {
		t.Fatalf("expected first field message, got %v", err)
	}
}

func TestValidatorNoErrors(t *testing.T) {
	v := New().
		Required("name", "Ann").
		Pattern("code", "", `^\d+$`).
		OneOf("role", "", []string{"admin"})
	if v.HasErrors() {
		t.Fatalf("unexpected errors %v", v.Errors())
	}
	if v.Err() != nil {
		t.Fatal("expected nil error")
	}
	r := Apply(v, "Ann")
	if !r.HasValue() || r.Value() != "Ann" {
		t.Fatalf("expected success, got %v", r)
	}
}

func TestApplyFailure(t *testing.T) {
	r := Apply(New().Required("email", " "), "x")
	if !errors.IsKind(r.Err(), errors.KindValidation) {
		t.Fatalf("expected validation failure, got %v", r)
	}
}

func TestRequiredUUID(t *testing.T) {
	cases := map[string]int{
		"":                                     1,
		"not-a-uuid":                           1,
		uuid.Nil.String():                      1,
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8": 0,
	}
	for in, want := range cases {
		if got := len(New().RequiredUUID("id", in).Errors()); got != want {
			t.Errorf("RequiredUUID(%q): expected %d errors, got %d", in, want, got)
		}
	}
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	if r := ParseUUID("id", id.String()); r.Value() != id {
		t.Errorf("expected %s, got %v", id, r)
	}
	if r := ParseUUID("id", ""); r.Message() != "id is required" {
		t.Errorf("unexpected message %q", r.Message())
	}
	if r := ParseUUID("id", "zzz"); r.Message() != "id must be a valid UUID" {
		t.Errorf("unexpected message %q", r.Message())
	}
}
