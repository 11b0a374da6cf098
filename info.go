package grove

import "github.com/google/uuid"

// NodeInfo contains diagnostic information about one injector.
type NodeInfo struct {
	ID     uuid.UUID
	Parent uuid.UUID
	Root   bool

	// Token, Scope and Strategy describe the binding. Pass-through nodes
	// and the root have an empty token and StrategyNone.
	Token    Name
	Scope    Scope
	Strategy Strategy

	Children    int
	Disposables int
	Cached      bool
	Disposed    bool
}

// Info returns a snapshot of i's state.
func (i *Injector) Info() NodeInfo {
	info := NodeInfo{
		ID:     i.id,
		Parent: i.parent,
		Root:   i.root,
	}

	if i.binding != nil {
		info.Token = i.binding.token
		info.Scope = i.binding.scope
		info.Strategy = i.binding.strategy
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	info.Children = len(i.children)
	info.Disposables = len(i.disposables)
	info.Cached = i.cached != nil
	info.Disposed = i.disposed

	return info
}
