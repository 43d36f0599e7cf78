package schema

import (
	"fmt"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// CollectionPath returns the static path to the collection map of a type.
// Pure function of the descriptor; no side effects.
func CollectionPath(d Descriptor) core.Path {
	return core.Path{d.Collection}
}

// EntityPath returns the path at which the entity identified by key lives.
// The key is the already-rendered map-key form of the identity. Fails with
// ErrInvalidIdentity when the key cannot serve as a map key.
func EntityPath(d Descriptor, key string) (core.Path, error) {
	if d.Collection == "" {
		return nil, fmt.Errorf("%w: type %q has no collection", core.ErrInvalidIdentity, d.TypeID)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty map key for type %q", core.ErrInvalidIdentity, d.TypeID)
	}
	return core.Path{d.Collection, key}, nil
}
