package events

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/kbukum/resultkit/logger"
)

// Handler receives events delivered by a Bus.
type Handler func(ctx context.Context, e Event) error

type subscription struct {
	id      uint64
	pattern string
	handler Handler
}

// Bus is an in-memory, synchronous publisher. Subscribers register a glob
// pattern over event names ("user.*", "*" or an exact name) and are called in
// subscription order on the publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	log    *logger.Logger
}

// NewBus creates an empty bus. A nil log uses the global logger.
func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Bus{log: log.WithComponent("events")}
}

// Subscribe registers h for events whose name matches pattern and returns a
// function that removes the subscription.
func (b *Bus) Subscribe(pattern string, h Handler) (func(), error) {
	if h == nil {
		return nil, fmt.Errorf("events: nil handler")
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("events: invalid pattern %q: %w", pattern, err)
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { b.unsubscribe(id) }) }, nil
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching subscriber. A failing handler does
// not stop delivery; the first error is returned.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	var first error
	delivered := 0
	for _, s := range subs {
		if ok, _ := path.Match(s.pattern, e.Name); !ok {
			continue
		}
		delivered++
		if err := s.handler(ctx, e); err != nil {
			b.log.WithContext(ctx).Warn("Event handler failed", logger.Fields(
				logger.FieldEvent, e.Name,
				"pattern", s.pattern,
				logger.FieldError, err.Error(),
			))
			if first == nil {
				first = err
			}
		}
	}
	if delivered == 0 {
		b.log.WithContext(ctx).Debug("No subscribers matched event", logger.Fields(logger.FieldEvent, e.Name))
	}
	return first
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
