package grove

// Middleware provides hooks around resolution and disposal.
// Middleware can be used for logging, metrics, tracing, testing, etc.
type Middleware interface {
	// BeforeResolve is called before a provider produces or returns the value
	// of its own token. Return error to abort resolution.
	BeforeResolve(token Name) error

	// AfterResolve is called after a provider resolved its own token.
	// Called even if resolution failed (value and err may both be set).
	// A returned error replaces the outcome.
	AfterResolve(token Name, value any, err error) error

	// BeforeDispose is called once per node when its disposal starts.
	BeforeDispose(info NodeInfo)

	// AfterDispose is called once per node when its disposal has finished.
	AfterDispose(info NodeInfo, err error)
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

// beforeResolve calls BeforeResolve on all middleware.
func (m *middlewareChain) beforeResolve(token Name) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeResolve(token); err != nil {
			return err
		}
	}
	return nil
}

// afterResolve calls AfterResolve on all middleware.
func (m *middlewareChain) afterResolve(token Name, value any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterResolve(token, value, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

func (m *middlewareChain) beforeDispose(info NodeInfo) {
	for _, mw := range m.middleware {
		mw.BeforeDispose(info)
	}
}

func (m *middlewareChain) afterDispose(info NodeInfo, err error) {
	for _, mw := range m.middleware {
		mw.AfterDispose(info, err)
	}
}

// FuncMiddleware wraps functions as Middleware. Nil fields are skipped.
type FuncMiddleware struct {
	BeforeResolveFunc func(token Name) error
	AfterResolveFunc  func(token Name, value any, err error) error
	BeforeDisposeFunc func(info NodeInfo)
	AfterDisposeFunc  func(info NodeInfo, err error)
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(token Name) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(token)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(token Name, value any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(token, value, err)
	}
	return nil
}

// BeforeDispose implements Middleware.
func (f *FuncMiddleware) BeforeDispose(info NodeInfo) {
	if f.BeforeDisposeFunc != nil {
		f.BeforeDisposeFunc(info)
	}
}

// AfterDispose implements Middleware.
func (f *FuncMiddleware) AfterDispose(info NodeInfo, err error) {
	if f.AfterDisposeFunc != nil {
		f.AfterDisposeFunc(info, err)
	}
}
