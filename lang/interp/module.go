package interp

import (
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/tinyscript/lang/value"
)

// Module is the entry point of a native module. It receives the requested
// name and the interpreter's global scope, may populate the globals, and
// returns the value load_module yields to the script (owned).
type Module func(name string, globals value.Value) value.Value

// Registry maps module names to entry points. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register binds name to m, replacing any previous entry.
func (r *Registry) Register(name string, m Module) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modules[name] = m

	return r
}

// Lookup returns the module registered under name.
func (r *Registry) Lookup(name string) (Module, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]

	return m, ok
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.modules))
}
