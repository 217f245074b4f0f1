package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/resultkit/result"
)

// Trigger selects which outcomes produce an event.
type Trigger int

const (
	// OnSuccess emits only for successful results. It is the zero value.
	OnSuccess Trigger = iota
	// OnFailure emits only for failed results.
	OnFailure
	// OnBoth emits for every result.
	OnBoth
)

func (t Trigger) String() string {
	switch t {
	case OnSuccess:
		return "success"
	case OnFailure:
		return "failure"
	case OnBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Matches reports whether an outcome with the given success flag fires t.
func (t Trigger) Matches(success bool) bool {
	switch t {
	case OnSuccess:
		return success
	case OnFailure:
		return !success
	case OnBoth:
		return true
	default:
		return false
	}
}

// Options configures emission for one operation. An empty Name means the
// operation name is used.
type Options struct {
	Name string
	On   Trigger
}

// Outcome is the part of a result an event needs. Every result.Result[T]
// satisfies it.
type Outcome interface {
	IsSuccess() bool
	Message() string
	String() string
}

// Event describes the outcome of an operation.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Operation  string    `json:"operation"`
	Args       []any     `json:"args,omitempty"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`

	// Result is the originating result.Result[T]. Use ResultOf to read it.
	Result Outcome `json:"-"`
}

// NewEvent builds an event for r. The name falls back to operation when
// opts.Name is empty.
func NewEvent[T any](opts Options, operation string, args []any, r result.Result[T]) Event {
	name := opts.Name
	if name == "" {
		name = operation
	}
	e := Event{
		ID:         uuid.NewString(),
		Name:       name,
		Operation:  operation,
		Args:       args,
		Success:    r.IsSuccess(),
		Message:    r.Message(),
		OccurredAt: time.Now().UTC(),
		Result:     r,
	}
	if err := r.Err(); err != nil {
		e.ErrorKind = err.Kind().String()
	} else if v, ok := r.Get(); ok {
		e.Data = v
	}
	return e
}

// ResultOf returns the typed result carried by e. ok is false when e carries
// a result of a different type.
func ResultOf[T any](e Event) (result.Result[T], bool) {
	r, ok := e.Result.(result.Result[T])
	return r, ok
}
