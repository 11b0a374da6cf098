package grove

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a token that is resolved on first access.
// This is useful for deferring resolution of expensive singletons until
// they're actually needed, e.g. from a class that asks for the injector.
type Lazy[T any] struct {
	injector *Injector
	token    Name
	once     sync.Once
	value    T
	err      error
	resolved atomic.Bool
}

// NewLazy creates a new lazy wrapper resolving token from injector.
func NewLazy[T any](injector *Injector, token Name) *Lazy[T] {
	return &Lazy[T]{
		injector: injector,
		token:    token,
	}
}

// Get resolves the token and returns it.
// The resolution happens only once; subsequent calls return the same outcome.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = Resolve[T](l.injector, l.token)
		l.resolved.Store(l.err == nil)
	})

	return l.value, l.err
}

// MustGet resolves the token and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.token, err))
	}

	return value
}

// IsResolved returns true if the token has been resolved successfully.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Token returns the wrapped token.
func (l *Lazy[T]) Token() Name {
	return l.token
}

// Provider resolves a token on every access. With a Transient binding each
// call yields a fresh instance.
type Provider[T any] struct {
	injector *Injector
	token    Name
}

// NewProvider creates a new provider resolving token from injector.
func NewProvider[T any](injector *Injector, token Name) *Provider[T] {
	return &Provider[T]{
		injector: injector,
		token:    token,
	}
}

// Get resolves the token.
func (p *Provider[T]) Get() (T, error) {
	return Resolve[T](p.injector, p.token)
}

// MustGet resolves the token, panicking on error.
func (p *Provider[T]) MustGet() T {
	value, err := p.Get()
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", p.token, err))
	}

	return value
}

// Token returns the wrapped token.
func (p *Provider[T]) Token() Name {
	return p.token
}
