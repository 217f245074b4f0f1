package resilience

import (
	"errors"
	"sync"
	"time"

	rkerrors "github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// State is a circuit breaker state.
type State int

const (
	// StateClosed lets calls through.
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down ends.
	StateOpen
	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a call is rejected by an open breaker.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	Name string `mapstructure:"name"`
	// MaxFailures is the number of consecutive tripping failures that opens the circuit.
	MaxFailures int `mapstructure:"max_failures"`
	// CoolDown is how long the circuit stays open before probing.
	CoolDown time.Duration `mapstructure:"cool_down"`
	// HalfOpenCalls is the number of probes allowed while half-open.
	HalfOpenCalls int `mapstructure:"half_open_calls"`
	// Trips reports whether an error counts against the circuit.
	// Defaults to DefaultRetryIf, so classified failures never trip it.
	Trips func(error) bool `mapstructure:"-"`
	// OnStateChange is called with the lock held; it must not call back into the breaker.
	OnStateChange func(name string, from, to State) `mapstructure:"-"`
}

// DefaultBreakerConfig opens after 5 failures and probes after 30s.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{Name: name, MaxFailures: 5, CoolDown: 30 * time.Second, HalfOpenCalls: 1}
}

// Breaker fails fast while a dependency keeps failing.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	probes   int
	passed   int
	openedAt time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = 30 * time.Second
	}
	if cfg.HalfOpenCalls <= 0 {
		cfg.HalfOpenCalls = 1
	}
	if cfg.Trips == nil {
		cfg.Trips = DefaultRetryIf
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Execute runs fn unless the circuit is open.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	b.record(err)
	return err
}

// Guard runs op through b. A rejected call becomes a Generic failure.
// Only failures that b's Trips function accepts count against the circuit.
func Guard[T any](b *Breaker, op func() result.Result[T]) result.Result[T] {
	if !b.allow() {
		return result.Failure[T](rkerrors.Generic(ErrCircuitOpen.Error()))
	}
	r := op()
	if e := r.Err(); e != nil {
		b.record(e)
	} else {
		b.record(nil)
	}
	return r
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Failures returns the consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Reset closes the circuit.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
	b.failures = 0
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.current() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.probes < b.cfg.HalfOpenCalls {
			b.probes++
			return true
		}
	}
	return false
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !b.cfg.Trips(err) {
		switch b.current() {
		case StateClosed:
			b.failures = 0
		case StateHalfOpen:
			b.passed++
			if b.passed >= b.cfg.HalfOpenCalls {
				b.transition(StateClosed)
			}
		}
		return
	}

	b.failures++
	switch b.current() {
	case StateClosed:
		if b.failures >= b.cfg.MaxFailures {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	}
}

// current must be called with mu held.
func (b *Breaker) current() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.CoolDown {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.probes = 0
	b.passed = 0
	switch to {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
	}
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}
