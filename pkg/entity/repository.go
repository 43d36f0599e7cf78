package entity

import (
	"context"
	"fmt"
	"iter"

	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/mapping"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// Repository is a stateless per-type view bound to one Manager. It does
// not own entities; records are built on demand by the hydrator and
// written back by the reconciler.
type Repository struct {
	mgr  *Manager
	desc schema.Descriptor
}

// Descriptor returns the schema the repository operates on.
func (r *Repository) Descriptor() schema.Descriptor {
	return r.desc
}

// Find returns the entity identified by id, or nil without error when no
// such entity exists. The id may be anything the type's identity codec
// accepts (schema.Key, uuid.UUID, string, ...).
func (r *Repository) Find(ctx context.Context, id any) (*mapping.Record, error) {
	path, err := r.entityPath(id)
	if err != nil {
		return nil, err
	}
	kind, err := r.mgr.doc.Kind(ctx, path)
	if err != nil {
		return nil, err
	}
	if kind == core.KindAbsent {
		return nil, nil
	}
	return mapping.Hydrate(ctx, r.mgr.doc, r.mgr.registry, r.desc, path)
}

// All returns a lazy sequence over every entity in the collection. The
// identity keys are listed up front; each record is hydrated only when the
// consumer reaches it. Every call produces a fresh sequence; a sequence is
// not restartable once consumed. Hydration failures surface as the second
// element, after which iteration stops.
func (r *Repository) All(ctx context.Context) iter.Seq2[*mapping.Record, error] {
	return func(yield func(*mapping.Record, error) bool) {
		collection := schema.CollectionPath(r.desc)
		kind, err := r.mgr.doc.Kind(ctx, collection)
		if err != nil {
			yield(nil, err)
			return
		}
		if kind == core.KindAbsent {
			return
		}
		keys, err := r.mgr.doc.Keys(ctx, collection)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, key := range keys {
			rec, err := mapping.Hydrate(ctx, r.mgr.doc, r.mgr.registry, r.desc, collection.Child(key))
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Save writes the record into the document, creating or updating its node
// (upsert). The entity path is computed from the record's identity.
func (r *Repository) Save(ctx context.Context, rec *mapping.Record) error {
	path, err := schema.EntityPath(r.desc, rec.ID)
	if err != nil {
		return err
	}
	return mapping.Reconcile(ctx, r.mgr.doc, r.mgr.registry, r.desc, path, rec)
}

// Insert writes a new record and fails with ErrEntityExists when an entity
// with the same identity is already present.
func (r *Repository) Insert(ctx context.Context, rec *mapping.Record) error {
	path, err := schema.EntityPath(r.desc, rec.ID)
	if err != nil {
		return err
	}
	kind, err := r.mgr.doc.Kind(ctx, path)
	if err != nil {
		return err
	}
	if kind != core.KindAbsent {
		return fmt.Errorf("%w: id %q in collection %q", core.ErrEntityExists, rec.ID, r.desc.Collection)
	}
	return mapping.Reconcile(ctx, r.mgr.doc, r.mgr.registry, r.desc, path, rec)
}

// Update writes an existing record and fails with ErrNodeNotFound when no
// entity with the record's identity is present.
func (r *Repository) Update(ctx context.Context, rec *mapping.Record) error {
	path, err := schema.EntityPath(r.desc, rec.ID)
	if err != nil {
		return err
	}
	kind, err := r.mgr.doc.Kind(ctx, path)
	if err != nil {
		return err
	}
	if kind == core.KindAbsent {
		return fmt.Errorf("%w: id %q in collection %q", core.ErrNodeNotFound, rec.ID, r.desc.Collection)
	}
	return mapping.Reconcile(ctx, r.mgr.doc, r.mgr.registry, r.desc, path, rec)
}

// FindOrSave returns the entity identified by id, constructing and saving
// it with build when absent. A built record that reports a different
// identity than id fails with ErrKeyMismatch and is not written.
func (r *Repository) FindOrSave(ctx context.Context, id any, build func() *mapping.Record) (*mapping.Record, error) {
	rec, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	key, err := r.desc.Codec.Encode(id)
	if err != nil {
		return nil, err
	}
	rec = build()
	if rec.ID != key {
		return nil, fmt.Errorf("%w: built %q, requested %q", core.ErrKeyMismatch, rec.ID, key)
	}
	if err := r.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the entity identified by id. Fails with ErrNodeNotFound
// when absent; callers wanting idempotence check Find first.
func (r *Repository) Delete(ctx context.Context, id any) error {
	path, err := r.entityPath(id)
	if err != nil {
		return err
	}
	kind, err := r.mgr.doc.Kind(ctx, path)
	if err != nil {
		return err
	}
	if kind == core.KindAbsent {
		return fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	}
	return r.mgr.doc.Delete(ctx, path)
}

func (r *Repository) entityPath(id any) (core.Path, error) {
	key, err := r.desc.Codec.Encode(id)
	if err != nil {
		return nil, err
	}
	return schema.EntityPath(r.desc, key)
}
