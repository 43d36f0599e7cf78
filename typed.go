package orm

import (
	"github.com/bowtieworks/automerge-orm/pkg/entity"
	"github.com/bowtieworks/automerge-orm/pkg/typed"
)

// TypedRepository is a public alias for the generic typed repository.
// It converts between Go structs and document subtrees using descriptors
// derived from `automerge` struct tags.
type TypedRepository[T any] = typed.Repository[T]

// TypedOption is a public alias for typed derivation options.
type TypedOption = typed.Option

// WithCollection overrides the derived collection name.
func WithCollection(name string) TypedOption {
	return typed.WithCollection(name)
}

// NewTyped derives and registers T's descriptor on the manager and returns
// a type-safe repository for its collection.
func NewTyped[T any](mgr *entity.Manager, opts ...TypedOption) (*TypedRepository[T], error) {
	return typed.NewRepository[T](mgr, opts...)
}
