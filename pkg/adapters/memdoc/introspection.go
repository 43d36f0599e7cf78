package memdoc

import (
	"github.com/aretw0/introspection"
)

// DocumentState exposes internal state for observability.
type DocumentState struct {
	RootKeys int `json:"root_keys"`
}

// State implements introspection.Introspectable.
func (d *Document) State() any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return DocumentState{
		RootKeys: len(d.root),
	}
}

// ComponentType implements introspection.Component.
func (d *Document) ComponentType() string {
	return "memdoc"
}

var _ introspection.Introspectable = (*Document)(nil)
var _ introspection.Component = (*Document)(nil)
