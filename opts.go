package grove

import "go.uber.org/zap"

// config is shared by every node of one injector tree.
type config struct {
	logger     *zap.Logger
	middleware *middlewareChain
}

// Option configures a root injector created with New.
type Option func(*config)

// WithLogger sets the logger used by every node of the tree.
// A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMiddleware adds middleware to the tree. Middleware is called in the
// order it is added.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *config) {
		for _, mw := range middleware {
			if mw != nil {
				c.middleware.add(mw)
			}
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:     zap.NewNop(),
		middleware: newMiddlewareChain(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
