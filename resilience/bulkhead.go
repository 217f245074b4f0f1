package resilience

import (
	"context"
	"errors"
	"time"

	rkerrors "github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// Bulkhead rejection errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead in logs.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxConcurrent is the maximum number of concurrent calls.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long to wait for a slot. 0 means fail immediately.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	// OnReject is called when a request is rejected.
	OnReject func(name string) `yaml:"-" mapstructure:"-"`
}

// DefaultBulkheadConfig returns a bulkhead of 10 slots that fails fast.
func DefaultBulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{Name: name, MaxConcurrent: 10}
}

// Bulkhead limits concurrency with a semaphore. It also implements
// result.Executor so result.AsyncOn can run suppliers on a bounded pool.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

var _ result.Executor = (*Bulkhead)(nil)

// NewBulkhead creates a bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn on the calling goroutine once a slot is free.
// It returns ErrBulkheadFull or ErrBulkheadTimeout without running fn when
// no slot becomes available.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer b.release()
	return fn()
}

// Submit runs task on a new goroutine holding a slot until it returns.
// Rejections are returned synchronously and task is not run.
func (b *Bulkhead) Submit(task func()) error {
	if err := b.acquire(context.Background()); err != nil {
		return err
	}
	go func() {
		defer b.release()
		task()
	}()
	return nil
}

// ExecuteResult runs op within the bulkhead. A rejection becomes a Generic
// failure carrying the rejection reason.
func ExecuteResult[T any](ctx context.Context, b *Bulkhead, op func(context.Context) result.Result[T]) result.Result[T] {
	var out result.Result[T]
	if err := b.Execute(ctx, func() error {
		out = op(ctx)
		return nil
	}); err != nil {
		return result.Failure[T](rkerrors.Generic(err.Error()))
	}
	return out
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.reject()
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C:
		b.reject()
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) reject() {
	if b.config.OnReject != nil {
		b.config.OnReject(b.config.Name)
	}
}

func (b *Bulkhead) release() {
	<-b.sem
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	return b.config.MaxConcurrent - len(b.sem)
}

// InUse returns the number of slots currently held.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}
