package result

import (
	"strconv"
	"testing"

	"github.com/kbukum/resultkit/errors"
)

func TestMap_Success(t *testing.T) {
	r := Map(SuccessWithMessage(4, "custom"), func(v int) string { return strconv.Itoa(v * 2) })
	if !r.IsSuccess() || r.Value() != "8" {
		t.Fatalf("expected success '8', got %v", r)
	}
	if r.Message() != DefaultSuccessMessage {
		t.Errorf("mapped result must use the default message, got %q", r.Message())
	}
}

func TestMap_AbsentValueSkipsTransform(t *testing.T) {
	calls := 0
	var p *int
	r := Map(Success(p), func(*int) string {
		calls++
		return "x"
	})
	if calls != 0 {
		t.Errorf("transform must not be called, called %d times", calls)
	}
	if !r.IsSuccess() || r.HasValue() {
		t.Errorf("expected absent-value success, got %v", r)
	}
}

func TestMap_FailurePassesThrough(t *testing.T) {
	calls := 0
	for _, k := range errors.Kinds() {
		e, _ := errors.New(k, "m-"+k.String())
		r := Map(Failure[int](e), func(int) string {
			calls++
			return ""
		})
		if r.IsSuccess() {
			t.Fatalf("%s: expected failure", k)
		}
		if r.Err().Kind() != k || r.Err().Message() != "m-"+k.String() {
			t.Errorf("%s: error changed to %v", k, r.Err())
		}
	}
	if calls != 0 {
		t.Errorf("transform must not be called on failures, called %d times", calls)
	}
}

func TestFlatMap(t *testing.T) {
	half := func(v int) Result[int] {
		if v%2 != 0 {
			return ValidationError[int]("odd")
		}
		return SuccessWithMessage(v/2, "halved")
	}

	r := FlatMap(Success(10), half)
	if r.Value() != 5 || r.Message() != "halved" {
		t.Errorf("expected transform result as is, got %v / %q", r, r.Message())
	}

	r = FlatMap(Success(3), half)
	if r.Err() == nil || r.Err().Kind() != errors.KindValidation {
		t.Errorf("expected VALIDATION failure, got %v", r)
	}

	calls := 0
	spy := func(int) Result[int] { calls++; return Success(0) }
	FlatMap(NotFoundError[int]("gone"), spy)
	FlatMap(Result[int]{message: "m"}, spy)
	if calls != 0 {
		t.Errorf("transform must not be called, called %d times", calls)
	}
}

func TestValidate(t *testing.T) {
	positive := func(v int) bool { return v > 0 }

	ok := Success(3)
	if r := ok.Validate(positive, "must be positive"); !r.IsSuccess() || r.Value() != 3 || r.Message() != ok.Message() {
		t.Errorf("true predicate must return receiver, got %v", r)
	}

	r := Success(-1).Validate(positive, "must be positive")
	if r.IsSuccess() {
		t.Fatal("false predicate must fail")
	}
	if r.Err().Kind() != errors.KindValidation || r.Err().Message() != "must be positive" {
		t.Errorf("unexpected failure %v", r.Err())
	}
}

func TestValidate_ShortCircuits(t *testing.T) {
	calls := 0
	spy := func(*int) bool { calls++; return false }

	var p *int
	if r := Success(p).Validate(spy, "x"); !r.IsSuccess() {
		t.Error("absent value must pass unchanged")
	}
	f := Failure[*int](errors.Unauthorized("no"))
	if r := f.Filter(spy, "x"); r.Err().Kind() != errors.KindUnauthorized {
		t.Error("failure must pass unchanged")
	}
	if calls != 0 {
		t.Errorf("predicate must not be called, called %d times", calls)
	}
}

func TestFilter_IsValidate(t *testing.T) {
	r := Success("").Filter(func(s string) bool { return s != "" }, "empty")
	if r.Err() == nil || r.Err().Message() != "empty" {
		t.Errorf("expected VALIDATION 'empty', got %v", r)
	}
}

func TestOnSuccess(t *testing.T) {
	seen := 0
	r := Success(7).OnSuccess(func(v int) { seen = v })
	if seen != 7 || r.Value() != 7 {
		t.Errorf("side effect not applied, seen=%d", seen)
	}

	calls := 0
	Empty[int]().OnSuccess(func(int) { calls++ })
	NotFoundError[int]("x").OnSuccess(func(int) { calls++ })
	if calls != 0 {
		t.Errorf("side effect must be skipped, called %d times", calls)
	}
}

func TestOnSuccess_PanicPropagates(t *testing.T) {
	defer func() {
		if recover() != "boom" {
			t.Error("expected panic to propagate")
		}
	}()
	Success(1).OnSuccess(func(int) { panic("boom") })
}

func TestOnFailure(t *testing.T) {
	var got *errors.Error
	NotFoundError[int]("gone").OnFailure(func(e *errors.Error) { got = e })
	if got == nil || got.Kind() != errors.KindNotFound {
		t.Errorf("expected NOT_FOUND, got %v", got)
	}

	calls := 0
	Success(1).OnFailure(func(*errors.Error) { calls++ })
	Empty[int]().OnFailure(func(*errors.Error) { calls++ })
	if calls != 0 {
		t.Errorf("side effect must be skipped on success, called %d times", calls)
	}
}

func TestOrElse(t *testing.T) {
	e := errors.Generic("e")
	if r := Failure[int](e).OrElse(Success(5)); r.Value() != 5 || !r.IsSuccess() {
		t.Errorf("expected alternative 5, got %v", r)
	}
	if r := Success(5).OrElse(Success(9)); r.Value() != 5 {
		t.Errorf("expected receiver 5, got %v", r)
	}
}

func TestOrElseGet(t *testing.T) {
	calls := 0
	supplier := func() int { calls++; return 42 }

	if v := Success(1).OrElseGet(supplier); v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	if calls != 0 {
		t.Errorf("supplier must not run on success, ran %d times", calls)
	}

	if v := FailureMessage[int]("x").OrElseGet(supplier); v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	if calls != 1 {
		t.Errorf("supplier must run exactly once, ran %d times", calls)
	}
}

func TestOperators_DoNotMutateReceiver(t *testing.T) {
	orig := SuccessWithMessage(2, "orig")
	_ = orig.Validate(func(int) bool { return false }, "bad")
	_ = Map(orig, func(v int) int { return v + 1 })
	if !orig.IsSuccess() || orig.Value() != 2 || orig.Message() != "orig" {
		t.Errorf("receiver changed: %v / %q", orig, orig.Message())
	}
}
