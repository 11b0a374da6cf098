package grove

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// InjectClass resolves every token c declares and constructs it.
func (i *Injector) InjectClass(c *Injectable) (any, error) {
	return i.inject(KindClass, c, nil)
}

// InjectClassFor is InjectClass on behalf of target, which c receives if it
// asks for the Target token.
func (i *Injector) InjectClassFor(c *Injectable, target *Injectable) (any, error) {
	return i.inject(KindClass, c, target)
}

// InjectFunction resolves every token fn declares and invokes it.
func (i *Injector) InjectFunction(fn *Injectable) (any, error) {
	return i.inject(KindFunction, fn, nil)
}

// InjectFunctionFor is InjectFunction on behalf of target.
func (i *Injector) InjectFunctionFor(fn *Injectable, target *Injectable) (any, error) {
	return i.inject(KindFunction, fn, target)
}

// Resolve returns the value bound to token by i or its nearest ancestor
// that binds it.
func (i *Injector) Resolve(token Name) (any, error) {
	return i.ResolveFor(token, nil)
}

// ResolveFor is Resolve on behalf of target.
func (i *Injector) ResolveFor(token Name, target *Injectable) (any, error) {
	if i.IsDisposed() {
		return nil, newDisposedError("resolve", token, i)
	}

	value, err := i.resolveInternal(token, target)
	if err != nil {
		var injErr *InjectionError
		if errors.As(err, &injErr) {
			return nil, injErr
		}

		return nil, newInjectionError(token, err)
	}

	return value, nil
}

// ---------------------------------------------------------------------------
// Internal
// ---------------------------------------------------------------------------

func (i *Injector) inject(kind Kind, in *Injectable, target *Injectable) (any, error) {
	if in == nil {
		return nil, errInvalidInjectable("<nil>", "no injectable given")
	}

	if i.IsDisposed() {
		return nil, newDisposedError("inject", in, i)
	}

	if in.kind != kind {
		return nil, newInjectionError(in, errKindMismatch(in, kind))
	}

	if in.err != nil {
		return nil, newInjectionError(in, in.err)
	}

	args, err := i.resolveArgs(in, target)
	if err != nil {
		return nil, newInjectionError(in, err)
	}

	value, err := in.invoke(args)
	if err != nil {
		return nil, newInjectionError(in, err)
	}

	return value, nil
}

// resolveArgs resolves the tokens of in, in declared order. Reserved tokens
// are answered here; named tokens go through the provider chain with in as
// the target.
func (i *Injector) resolveArgs(in *Injectable, target *Injectable) ([]any, error) {
	args := make([]any, len(in.tokens))

	for idx, tok := range in.tokens {
		switch tok := tok.(type) {
		case targetToken:
			if target != nil {
				args[idx] = target
			}
		case injectorToken:
			args[idx] = i
		case Name:
			value, err := i.resolveInternal(tok, in)
			if err != nil {
				return nil, err
			}
			args[idx] = value
		default:
			return nil, errInvalidInjectable(in.String(), fmt.Sprintf("unsupported token %v at position %d", tok, idx))
		}
	}

	return args, nil
}

// resolveInternal answers token if i binds it and delegates to the parent
// otherwise. The root answers nothing.
func (i *Injector) resolveInternal(token Name, target *Injectable) (any, error) {
	if i.binding != nil && i.binding.token == token {
		return i.resolveOwn(target)
	}

	if i.root {
		return nil, &NoProviderError{Token: token}
	}

	parent, ok := i.parentNode()
	if !ok {
		return nil, newDisposedError("resolve", token, i)
	}

	if parent.IsDisposed() {
		return nil, newDisposedError("resolve", token, parent)
	}

	return parent.resolveInternal(token, target)
}

// resolveOwn produces the value of i's own binding, running middleware
// around it. Failures are wrapped with the token.
func (i *Injector) resolveOwn(target *Injectable) (any, error) {
	token := i.binding.token
	chain := i.arena.cfg.middleware

	if err := chain.beforeResolve(token); err != nil {
		return nil, newInjectionError(token, err)
	}

	value, err := i.produce(target)

	if mwErr := chain.afterResolve(token, value, err); mwErr != nil {
		return nil, newInjectionError(token, mwErr)
	}

	if err != nil {
		return nil, newInjectionError(token, err)
	}

	return value, nil
}

// produce returns the cached singleton or runs the strategy.
func (i *Injector) produce(target *Injectable) (any, error) {
	b := i.binding

	if b.scope == Singleton {
		i.construct.Lock()
		defer i.construct.Unlock()

		if i.cached != nil {
			i.log.Debug("cache hit")

			return i.cached.value, nil
		}
	}

	value, err := i.runStrategy(target)
	if err != nil {
		i.log.Debug("construction failed", zap.Error(err))

		return nil, err
	}

	if b.scope == Singleton {
		i.mu.Lock()
		i.cached = &cachedValue{value: value}
		i.mu.Unlock()
	}

	return value, nil
}

// runStrategy computes a fresh value. Factories and classes are injected by
// the parent, so a binding that requires its own token sees the previous
// binding of that token.
func (i *Injector) runStrategy(target *Injectable) (any, error) {
	b := i.binding

	if b.strategy == StrategyValue {
		return b.value, nil
	}

	parent, ok := i.parentNode()
	if !ok {
		return nil, newDisposedError("inject", b.injectable, i)
	}

	value, err := parent.inject(kindOf(b.strategy), b.injectable, target)
	if err != nil {
		return nil, err
	}

	i.log.Debug("constructed", zap.Stringer("injectable", b.injectable))
	i.track(value)

	return value, nil
}
