package grove

// Scope controls how often a provider invokes its strategy.
type Scope int

const (
	// Singleton is the default. The strategy runs on first demand and the
	// result is reused for the lifetime of the provider.
	Singleton Scope = iota

	// Transient re-runs the strategy on every resolution.
	Transient
)

// String returns the human-readable name of the scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// pickScope returns the last scope given, or Singleton.
func pickScope(scopes []Scope) Scope {
	if len(scopes) == 0 {
		return Singleton
	}

	return scopes[len(scopes)-1]
}

// Strategy tells how a provider produces its value.
type Strategy int

const (
	// StrategyNone marks the root and pass-through children.
	StrategyNone Strategy = iota
	StrategyValue
	StrategyFactory
	StrategyClass
)

// String returns the human-readable name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyValue:
		return "value"
	case StrategyFactory:
		return "factory"
	case StrategyClass:
		return "class"
	default:
		return "unknown"
	}
}
