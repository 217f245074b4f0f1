package result

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Executor schedules tasks. Submit must either run task exactly once
// (synchronously or not) or return an error without running it.
type Executor interface {
	Submit(task func()) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(task func()) error

// Submit implements Executor.
func (f ExecutorFunc) Submit(task func()) error { return f(task) }

// GoExecutor runs every task on a new goroutine.
var GoExecutor Executor = ExecutorFunc(func(task func()) error {
	go task()
	return nil
})

// PanicError reports a panic raised by an asynchronous supplier.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("result: async supplier panicked: %v", e.Value)
}

// Future is the pending outcome of an asynchronous supplier.
type Future[T any] struct {
	done chan struct{}
	res  Result[T]
	err  error
}

// Async runs supplier on GoExecutor.
func Async[T any](supplier func() Result[T]) *Future[T] {
	return AsyncOn(GoExecutor, supplier)
}

// AsyncOn runs supplier on exec. The supplier's Result is delivered as is.
// A panic in supplier or a rejection by exec is reported by Await as an
// error, never as a failed Result.
func AsyncOn[T any](exec Executor, supplier func() Result[T]) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	if exec == nil {
		exec = GoExecutor
	}

	task := func() {
		defer close(f.done)
		defer func() {
			if v := recover(); v != nil {
				f.err = &PanicError{Value: v, Stack: debug.Stack()}
			}
		}()
		f.res = supplier()
	}

	if err := exec.Submit(task); err != nil {
		f.err = fmt.Errorf("result: submit async task: %w", err)
		close(f.done)
	}
	return f
}

// Done is closed once the outcome is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the supplier finishes or ctx is done. The error is
// non-nil only for executor-level faults or ctx expiry. Whenever the error
// is non-nil the returned Result is the zero value and must be ignored;
// it is not a success.
func (f *Future[T]) Await(ctx context.Context) (Result[T], error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		var zero Result[T]
		return zero, ctx.Err()
	}
}
