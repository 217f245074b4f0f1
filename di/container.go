package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/resultkit/logger"
)

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Initialize immediately on registration
	Lazy                              // Initialize on first resolve
	Singleton                         // Pre-created instance
)

func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// ErrNotRegistered is returned when resolving an unknown key.
var ErrNotRegistered = stderrors.New("component not registered")

// Container is a keyed dependency injection container.
type Container interface {
	Register(key string, constructor interface{}) error
	RegisterEager(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	Resolve(key string) (interface{}, error)
	Has(key string) bool
	Registrations() []RegistrationInfo
	Close() error
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

type registration struct {
	key         string
	constructor reflect.Value
	mode        RegistrationMode
	instance    interface{}
	initialized bool
	mu          sync.Mutex
}

type container struct {
	components map[string]*registration
	mu         sync.RWMutex
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{components: make(map[string]*registration)}
}

// Register registers a constructor that runs on first Resolve. Accepted
// shapes are func() T, func() (T, error), and the same with a single
// context.Context or Container parameter. A failed construction is not
// cached; the next Resolve tries again.
func (c *container) Register(key string, constructor interface{}) error {
	fn, err := checkConstructor(key, constructor)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{key: key, constructor: fn, mode: Lazy}
	return nil
}

// RegisterEager runs constructor now and stores the instance.
func (c *container) RegisterEager(key string, constructor interface{}) error {
	fn, err := checkConstructor(key, constructor)
	if err != nil {
		return err
	}
	instance, err := c.call(fn)
	if err != nil {
		return fmt.Errorf("failed to initialize eager component '%s': %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{key: key, mode: Eager, instance: instance, initialized: true}
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *container) RegisterSingleton(key string, instance interface{}) error {
	if key == "" {
		return fmt.Errorf("di: empty key")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{key: key, mode: Singleton, instance: instance, initialized: true}
	return nil
}

// Resolve returns the instance registered under key.
func (c *container) Resolve(key string) (interface{}, error) {
	c.mu.RLock()
	reg, ok := c.components[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := c.call(reg.constructor)
	if err != nil {
		logger.Debug("Lazy component initialization failed", logger.Fields(
			logger.FieldComponent, key,
			logger.FieldError, err.Error(),
		))
		return nil, fmt.Errorf("failed to initialize component '%s': %w", key, err)
	}
	reg.instance = instance
	reg.initialized = true
	logger.Debug("Lazy component initialized", logger.Fields(logger.FieldComponent, key))
	return instance, nil
}

// Has reports whether key is registered.
func (c *container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.components[key]
	return ok
}

// Registrations lists every registration sorted by key.
func (c *container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RegistrationInfo, 0, len(c.components))
	for key, reg := range c.components {
		reg.mu.Lock()
		out = append(out, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Close closes every initialized instance implementing Close() error and
// joins their errors.
func (c *container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key, reg := range c.components {
		if !reg.initialized || reg.instance == nil {
			continue
		}
		if closer, ok := reg.instance.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", key, err))
			}
		}
	}
	return stderrors.Join(errs...)
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

func checkConstructor(key string, constructor interface{}) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, fmt.Errorf("di: empty key")
	}
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("di: constructor for '%s' must be a function", key)
	}
	t := fn.Type()
	switch t.NumIn() {
	case 0:
	case 1:
		if t.In(0) != contextType && t.In(0) != containerType {
			return reflect.Value{}, fmt.Errorf("di: constructor for '%s' may only take context.Context or di.Container", key)
		}
	default:
		return reflect.Value{}, fmt.Errorf("di: constructor for '%s' takes too many parameters", key)
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return reflect.Value{}, fmt.Errorf("di: constructor for '%s' must return (instance, error)", key)
		}
	default:
		return reflect.Value{}, fmt.Errorf("di: constructor for '%s' must return either (instance) or (instance, error)", key)
	}
	return fn, nil
}

func (c *container) call(fn reflect.Value) (interface{}, error) {
	var in []reflect.Value
	if fn.Type().NumIn() == 1 {
		if fn.Type().In(0) == contextType {
			in = []reflect.Value{reflect.ValueOf(context.Background())}
		} else {
			in = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	}
	out := fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
