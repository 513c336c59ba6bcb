package svgpath

import "sync"

// Registry hands out one Factory per caller supplied identifier,
// so that concurrent parses of independent documents never share
// scratch state. It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	factories map[string]*Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]*Factory)}
}

// Get returns the factory registered for id, creating it if needed.
func (r *Registry) Get(id string) *Factory {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.factories[id]; ok {
		return f
	}
	f := NewFactory()
	r.factories[id] = f
	return f
}

// Release forgets the factory registered for id.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, id)
}

// Len returns the number of live factories.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.factories)
}
