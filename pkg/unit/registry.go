// pkg/unit/registry.go
package unit

import (
	"context"
	"fmt"
	"sync"
)

// Registry is a compiled-in Catalog. Contract violations surface at
// registration time instead of at request time.
type Registry struct {
	mu    sync.RWMutex
	units map[string]Unit
	order []string
}

func NewRegistry() *Registry {
	return &Registry{units: map[string]Unit{}}
}

// Register binds u under name.
func (r *Registry) Register(name string, u Unit) error {
	if !ValidName(name) {
		return fmt.Errorf("unit: invalid name %q", name)
	}
	if u == nil {
		return ContractViolation(name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.units[name]; dup {
		return fmt.Errorf("unit: duplicate %q", name)
	}
	r.units[name] = u
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) MustRegister(name string, u Unit) {
	if err := r.Register(name, u); err != nil {
		panic(err)
	}
}

func (r *Registry) Resolve(_ context.Context, name string) (Unit, error) {
	r.mu.RLock()
	u, ok := r.units[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NotFound(name)
	}
	return u, nil
}

// List returns names in registration order.
func (r *Registry) List(context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...), nil
}

// Default is the process-wide registry that init() functions contribute to.
var Default = NewRegistry()

// Register makes u available under name in Default.
func Register(name string, u Unit) error { return Default.Register(name, u) }

// MustRegister is Register that panics on error.
func MustRegister(name string, u Unit) { Default.MustRegister(name, u) }
