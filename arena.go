package grove

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handle is the stable identity of a node inside its arena.
type handle = uuid.UUID

// arena owns every live node of one injector tree. Nodes refer to their
// parent and children by handle only.
type arena struct {
	cfg   *config
	nodes map[handle]*Injector
	mu    sync.RWMutex
}

func newArena(cfg *config) *arena {
	return &arena{
		cfg:   cfg,
		nodes: make(map[handle]*Injector),
	}
}

// add allocates a handle for node and stores it.
func (a *arena) add(node *Injector) {
	node.id = uuid.New()

	a.mu.Lock()
	a.nodes[node.id] = node
	a.mu.Unlock()
}

// get returns the node for h, if it is still live.
func (a *arena) get(h handle) (*Injector, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	node, ok := a.nodes[h]

	return node, ok
}

// release forgets a fully disposed node.
func (a *arena) release(h handle) {
	a.mu.Lock()
	delete(a.nodes, h)
	a.mu.Unlock()
}

// size returns the number of live nodes.
func (a *arena) size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.nodes)
}

func (a *arena) logger() *zap.Logger {
	return a.cfg.logger
}
