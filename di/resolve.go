package di

import "fmt"

// ResolveAs resolves key and asserts it to T.
//
//	msgs, err := di.ResolveAs[result.Messages](c, di.Names.Messages)
func ResolveAs[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	v, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return v, nil
}

// MustResolve is ResolveAs that panics on error. Use it only during wiring.
func MustResolve[T any](c Container, key string) T {
	v, err := ResolveAs[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve resolves an optional dependency. It returns false when key is
// missing, fails to build, or has another type.
func TryResolve[T any](c Container, key string) (T, bool) {
	v, err := ResolveAs[T](c, key)
	return v, err == nil
}
