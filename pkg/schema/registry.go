package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// Registry maps entity type identifiers to their descriptors. It is
// read-mostly after startup and safe for concurrent use. Registries are
// explicit values owned by the caller (usually handed to an entity
// manager); there is no implicit process-global instance.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Descriptor)}
}

// Register records a descriptor. Registering the same shape twice is a
// no-op; registering a different shape under an existing type id fails
// with ErrConflictingSchema.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor for %q: %w", d.TypeID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[d.TypeID]; ok {
		if existing.Equal(d) {
			return nil
		}
		return fmt.Errorf("%w: %q", core.ErrConflictingSchema, d.TypeID)
	}
	r.types[d.TypeID] = d
	return nil
}

// Resolve returns the descriptor registered under typeID.
func (r *Registry) Resolve(typeID string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.types[typeID]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", core.ErrUnregisteredType, typeID)
	}
	return d, nil
}

// Types returns the registered type identifiers, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
