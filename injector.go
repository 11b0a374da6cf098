package grove

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// binding is what a provider node answers for.
type binding struct {
	token      Name
	scope      Scope
	strategy   Strategy
	value      any
	injectable *Injectable
}

// cachedValue holds a memoized singleton result.
type cachedValue struct {
	value any
}

// Injector is a node of an injector tree. The root is created with New;
// every other node is created from an existing node through one of the
// Provide methods or CreateChildInjector and stays attached to that parent
// until it is disposed.
//
// Resolution walks from a node towards the root; disposal walks from a node
// towards the leaves.
type Injector struct {
	id      handle
	arena   *arena
	parent  handle
	root    bool
	binding *binding
	log     *zap.Logger

	mu          sync.Mutex
	children    map[handle]struct{}
	disposed    bool
	disposables []disposable
	released    bool
	done        chan struct{}
	disposeErr  error

	// construct serializes singleton construction.
	construct sync.Mutex
	cached    *cachedValue
}

// New creates the root injector of a new tree. The root binds no token;
// resolving an unbound token through any node of the tree ends at the root
// with a *NoProviderError.
func New(opts ...Option) *Injector {
	a := newArena(newConfig(opts))

	root := &Injector{
		arena:    a,
		root:     true,
		children: make(map[handle]struct{}),
	}
	a.add(root)
	root.log = a.logger().With(zap.Stringer("injector", root.id))

	return root
}

// spawn creates a child node bound to b (nil for pass-through children) and
// attaches it to i. The disposed check and the attach happen under one lock
// so a disposing parent never misses a child.
func (i *Injector) spawn(b *binding, target InjectionTarget) (*Injector, error) {
	child := &Injector{
		arena:    i.arena,
		parent:   i.id,
		binding:  b,
		children: make(map[handle]struct{}),
	}

	i.mu.Lock()
	if i.disposed {
		i.mu.Unlock()

		return nil, newDisposedError("provide", target, i)
	}

	i.arena.add(child)
	i.children[child.id] = struct{}{}
	i.mu.Unlock()

	fields := []zap.Field{zap.Stringer("injector", child.id), zap.Stringer("parent", i.id)}
	if b != nil {
		fields = append(fields,
			zap.String("token", string(b.token)),
			zap.Stringer("scope", b.scope),
			zap.Stringer("strategy", b.strategy),
		)
	}
	child.log = i.arena.logger().With(fields...)
	child.log.Debug("injector created")

	return child, nil
}

// ProvideValue returns a child that answers token with value. The value is
// owned by the caller and is never disposed by the injector. The token must
// not be empty.
func (i *Injector) ProvideValue(token Name, value any) (*Injector, error) {
	if token == "" {
		if i.IsDisposed() {
			return nil, newDisposedError("provide", token, i)
		}

		return nil, errMissingToken(token)
	}

	return i.spawn(&binding{
		token:    token,
		scope:    Transient,
		strategy: StrategyValue,
		value:    value,
	}, token)
}

// ProvideFactory returns a child that answers token with the result of fn.
// The scope defaults to Singleton. An empty token falls back to
// fn.KnownAs().
func (i *Injector) ProvideFactory(token Name, fn *Injectable, scope ...Scope) (*Injector, error) {
	return i.provideInjectable(token, fn, StrategyFactory, scope)
}

// ProvideKnownFactory provides fn under its known-as token.
func (i *Injector) ProvideKnownFactory(fn *Injectable, scope ...Scope) (*Injector, error) {
	return i.provideInjectable("", fn, StrategyFactory, scope)
}

// ProvideClass returns a child that answers token with an instance built by
// c. The scope defaults to Singleton. An empty token falls back to
// c.KnownAs().
func (i *Injector) ProvideClass(token Name, c *Injectable, scope ...Scope) (*Injector, error) {
	return i.provideInjectable(token, c, StrategyClass, scope)
}

// ProvideKnownClass provides c under its known-as token.
func (i *Injector) ProvideKnownClass(c *Injectable, scope ...Scope) (*Injector, error) {
	return i.provideInjectable("", c, StrategyClass, scope)
}

func (i *Injector) provideInjectable(token Name, in *Injectable, strategy Strategy, scope []Scope) (*Injector, error) {
	if in == nil {
		return nil, errInvalidInjectable("<nil>", "no injectable given")
	}

	if token == "" {
		token = in.KnownAs()
	}

	if i.IsDisposed() {
		var target InjectionTarget = in
		if token != "" {
			target = token
		}

		return nil, newDisposedError("provide", target, i)
	}

	if token == "" {
		return nil, errMissingToken(in)
	}

	if want := kindOf(strategy); in.kind != want {
		return nil, errKindMismatch(in, want)
	}

	return i.spawn(&binding{
		token:      token,
		scope:      pickScope(scope),
		strategy:   strategy,
		injectable: in,
	}, token)
}

func kindOf(strategy Strategy) Kind {
	if strategy == StrategyFactory {
		return KindFunction
	}

	return KindClass
}

// CreateChildInjector returns a pass-through child. It binds nothing; it
// only opens a disposal boundary below i, e.g. for a session or request.
func (i *Injector) CreateChildInjector() (*Injector, error) {
	return i.spawn(nil, childInjectorTarget{})
}

type childInjectorTarget struct{}

func (childInjectorTarget) isTarget()      {}
func (childInjectorTarget) String() string { return "[child injector]" }

// ID returns the node's handle.
func (i *Injector) ID() uuid.UUID { return i.id }

// IsDisposed reports whether disposal has started.
func (i *Injector) IsDisposed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.disposed
}

// ChildCount returns the number of live children.
func (i *Injector) ChildCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.children)
}

// parentNode returns the live parent of a non-root node.
func (i *Injector) parentNode() (*Injector, bool) {
	if i.root {
		return nil, false
	}

	return i.arena.get(i.parent)
}

// removeChild detaches h from i.
func (i *Injector) removeChild(h handle) {
	i.mu.Lock()
	delete(i.children, h)
	i.mu.Unlock()
}

// describe names the node in error messages.
func (i *Injector) describe() string {
	switch {
	case i.root:
		return "root injector"
	case i.binding == nil:
		return "child injector"
	default:
		return "injector " + i.binding.token.String()
	}
}
