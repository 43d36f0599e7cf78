// Package entity provides the caller-facing access points of the ORM: the
// Manager, which owns one document handle and one registry for its
// lifetime, and the Repository, a per-type view over find/all/save/delete.
package entity

import (
	"fmt"
	"log/slog"

	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// Manager is the central access point to ORM functionality. Each manager
// wraps exactly one document handle and one registry; it performs no
// hydration or reconciliation itself, only delegation.
type Manager struct {
	doc      core.Document
	registry *schema.Registry
	logger   *slog.Logger
}

// Config holds the configuration for a Manager.
type Config struct {
	Logger *slog.Logger
}

// NewManager creates a Manager for a document and a registry.
func NewManager(doc core.Document, registry *schema.Registry, config Config) *Manager {
	return &Manager{
		doc:      doc,
		registry: registry,
		logger:   config.Logger,
	}
}

// Document returns the wrapped document handle.
func (m *Manager) Document() core.Document {
	return m.doc
}

// Registry returns the registry the manager resolves types against.
func (m *Manager) Registry() *schema.Registry {
	return m.registry
}

// Repository returns the repository view for a registered entity type.
// Fails with ErrUnregisteredType when the type was never registered or is
// registered as embedded-only (no collection to enumerate).
func (m *Manager) Repository(typeID string) (*Repository, error) {
	desc, err := m.registry.Resolve(typeID)
	if err != nil {
		return nil, err
	}
	if desc.Collection == "" {
		return nil, fmt.Errorf("%w: %q is embedded-only", core.ErrUnregisteredType, typeID)
	}
	return &Repository{mgr: m, desc: desc}, nil
}
