package events

import (
	"context"

	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
)

// Emit publishes an event for r when opts.On matches its outcome and returns
// r unchanged. Publishing errors are logged, never folded into r.
func Emit[T any](ctx context.Context, pub Publisher, opts Options, operation string, args []any, r result.Result[T]) result.Result[T] {
	if pub == nil || !opts.On.Matches(r.IsSuccess()) {
		return r
	}
	e := NewEvent(opts, operation, args, r)
	if err := pub.Publish(ctx, e); err != nil {
		logger.GetGlobalLogger().WithContext(ctx).Warn("Event publish failed", logger.Fields(
			logger.FieldEvent, e.Name,
			logger.FieldOperation, operation,
			logger.FieldError, err.Error(),
		))
	}
	return r
}

// Run invokes op and emits its outcome through pub.
//
//	r := events.Run(ctx, bus, events.Options{Name: "user.created"}, "CreateUser",
//	    func(ctx context.Context) result.Result[User] { return svc.create(ctx, req) }, req)
func Run[T any](ctx context.Context, pub Publisher, opts Options, operation string, op func(context.Context) result.Result[T], args ...any) result.Result[T] {
	return Emit(ctx, pub, opts, operation, args, op(ctx))
}
