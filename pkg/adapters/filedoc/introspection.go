package filedoc

import (
	"github.com/aretw0/introspection"
)

// DocumentState exposes internal state for observability.
type DocumentState struct {
	Path string `json:"path"`
}

// State implements introspection.Introspectable.
func (d *Document) State() any {
	return DocumentState{
		Path: d.path,
	}
}

// ComponentType implements introspection.Component.
func (d *Document) ComponentType() string {
	return "filedoc"
}

var _ introspection.Introspectable = (*Document)(nil)
var _ introspection.Component = (*Document)(nil)
