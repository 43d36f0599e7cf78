package entity

import (
	"github.com/aretw0/introspection"
)

// ManagerState exposes internal state for observability.
type ManagerState struct {
	RegisteredTypes []string `json:"registered_types"`
	DocumentType    string   `json:"document_type"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	docType := "document"
	if comp, ok := m.doc.(introspection.Component); ok {
		docType = comp.ComponentType()
	}

	return ManagerState{
		RegisteredTypes: m.registry.Types(),
		DocumentType:    docType,
	}
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "entity-manager"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
