package orm

import (
	"log/slog"

	"github.com/bowtieworks/automerge-orm/internal/platform"
	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/entity"
	"github.com/bowtieworks/automerge-orm/pkg/mapping"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// --- Types ---

// Manager is a public alias for the entity manager.
type Manager = entity.Manager

// Repository is a public alias for the dynamic (record-level) repository.
type Repository = entity.Repository

// Record is a public alias for the dynamic entity instance.
type Record = mapping.Record

// Registry is a public alias for the entity type registry.
type Registry = schema.Registry

// Descriptor is a public alias for the entity type descriptor.
type Descriptor = schema.Descriptor

// Field is a public alias for a descriptor field.
type Field = schema.Field

// Key is a public alias for the uuid-backed entity key.
type Key = schema.Key

// --- Configuration ---

// Option defines a functional option for configuring Open.
type Option = platform.Option

// WithDocument injects an existing document handle.
func WithDocument(doc core.Document) Option {
	return platform.WithDocument(doc)
}

// WithRegistry supplies a shared registry instead of a per-manager one.
func WithRegistry(reg *schema.Registry) Option {
	return platform.WithRegistry(reg)
}

// WithLogger sets the logger for the manager and adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the document adapter by name ("mem" or "file").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithMustExist makes the file adapter refuse to create a missing file.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// --- Factories ---

// Open creates an entity manager over a document. The URI is
// adapter-specific: ignored for 'mem', the snapshot file path for 'file'.
func Open(uri string, opts ...Option) (*entity.Manager, error) {
	return platform.Open(uri, opts...)
}

// NewManager creates a manager directly from a document and registry.
func NewManager(doc core.Document, reg *schema.Registry) *entity.Manager {
	return entity.NewManager(doc, reg, entity.Config{})
}

// NewRegistry creates an empty entity type registry.
func NewRegistry() *schema.Registry {
	return schema.NewRegistry()
}

// NewKey generates a fresh random entity key.
func NewKey() schema.Key {
	return schema.NewKey()
}

// NewRecord creates an empty dynamic record with the given identity key.
func NewRecord(id string) *mapping.Record {
	return mapping.NewRecord(id)
}
