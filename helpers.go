package grove

import "fmt"

// Resolve resolves token with type safety.
func Resolve[T any](i *Injector, token Name) (T, error) {
	var zero T

	value, err := i.Resolve(token)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, newTypeMismatchError[T](token, value)
	}

	return typed, nil
}

// MustResolve resolves or panics - use only during startup.
func MustResolve[T any](i *Injector, token Name) T {
	value, err := Resolve[T](i, token)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", token, err))
	}

	return value
}

// Inject injects a class or function and asserts the result type.
func Inject[T any](i *Injector, in *Injectable) (T, error) {
	var (
		zero  T
		value any
		err   error
	)

	if in != nil && in.Kind() == KindFunction {
		value, err = i.InjectFunction(in)
	} else {
		value, err = i.InjectClass(in)
	}

	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, newTypeMismatchError[T](Name(in.DisplayName()), value)
	}

	return typed, nil
}

// Key provides type-safe token identification.
type Key[T any] struct {
	token Name
}

// NewKey creates a typed key for token.
//
// Example:
//
//	var DatabaseKey = grove.NewKey[*Database]("database")
func NewKey[T any](token Name) Key[T] {
	return Key[T]{token: token}
}

// Token returns the untyped token, for use in token lists and Provide calls.
func (k Key[T]) Token() Name {
	return k.token
}

// ResolveKey resolves a typed key.
//
//	db, err := grove.ResolveKey(injector, DatabaseKey)
func ResolveKey[T any](i *Injector, key Key[T]) (T, error) {
	return Resolve[T](i, key.token)
}

// MustKey resolves a typed key and panics on error.
func MustKey[T any](i *Injector, key Key[T]) T {
	return MustResolve[T](i, key.token)
}
