package typed

import (
	"context"
	"fmt"
	"iter"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/bowtieworks/automerge-orm/pkg/entity"
	"github.com/bowtieworks/automerge-orm/pkg/mapping"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// Repository wraps an entity.Repository to provide type-safe access to one
// collection. Construction derives and registers T's descriptor, so a
// typed repository is all a caller needs to start working with a manager.
type Repository[T any] struct {
	repo *entity.Repository
	info *typeInfo
}

// NewRepository derives T's descriptor, registers it (plus any nested
// descriptors) with the manager's registry and returns the typed view.
// Repeated construction for the same T is harmless: registration is
// idempotent for identical shapes.
func NewRepository[T any](mgr *entity.Manager, opts ...Option) (*Repository[T], error) {
	info, err := deriveType(reflect.TypeFor[T](), true, opts...)
	if err != nil {
		return nil, err
	}
	if err := registerAll(mgr.Registry(), info); err != nil {
		return nil, err
	}
	repo, err := mgr.Repository(info.desc.TypeID)
	if err != nil {
		return nil, err
	}
	return &Repository[T]{repo: repo, info: info}, nil
}

// Descriptor returns the derived schema for T.
func (r *Repository[T]) Descriptor() schema.Descriptor {
	return r.repo.Descriptor()
}

// Find returns the entity identified by id, or (nil, nil) when absent.
func (r *Repository[T]) Find(ctx context.Context, id any) (*T, error) {
	rec, err := r.repo.Find(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return r.decode(rec)
}

// All returns a lazy sequence over every entity in the collection; see
// entity.Repository.All for the sequence semantics.
func (r *Repository[T]) All(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		for rec, err := range r.repo.All(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			v, err := r.decode(rec)
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Save writes the entity into the document (upsert).
func (r *Repository[T]) Save(ctx context.Context, v *T) error {
	rec, err := r.encode(v)
	if err != nil {
		return err
	}
	return r.repo.Save(ctx, rec)
}

// Insert writes a new entity; fails with ErrEntityExists when present.
func (r *Repository[T]) Insert(ctx context.Context, v *T) error {
	rec, err := r.encode(v)
	if err != nil {
		return err
	}
	return r.repo.Insert(ctx, rec)
}

// Update writes an existing entity; fails with ErrNodeNotFound when absent.
func (r *Repository[T]) Update(ctx context.Context, v *T) error {
	rec, err := r.encode(v)
	if err != nil {
		return err
	}
	return r.repo.Update(ctx, rec)
}

// Delete removes the entity identified by id; fails with ErrNodeNotFound
// when absent.
func (r *Repository[T]) Delete(ctx context.Context, id any) error {
	return r.repo.Delete(ctx, id)
}

// encode converts a struct into the engine's dynamic record form.
func (r *Repository[T]) encode(v *T) (*mapping.Record, error) {
	rv := reflect.ValueOf(v).Elem()
	id, err := r.info.desc.Codec.Encode(rv.Field(r.info.idIndex).Interface())
	if err != nil {
		return nil, err
	}
	rec, err := encodeStruct(rv, r.info)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return rec, nil
}

func encodeStruct(rv reflect.Value, info *typeInfo) (*mapping.Record, error) {
	rec := mapping.NewRecord("")
	for _, bf := range info.fields {
		fv := rv.Field(bf.index)
		if bf.field.Optional {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if bf.nested != nil {
			child, err := encodeStruct(fv, bf.nested)
			if err != nil {
				return nil, err
			}
			rec.Fields[bf.field.Key] = child
			continue
		}
		rec.Fields[bf.field.Key] = fv.Interface()
	}
	return rec, nil
}

// decode converts a record back into a struct, setting the identity field
// from the record's map key.
func (r *Repository[T]) decode(rec *mapping.Record) (*T, error) {
	out := new(T)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		// Untagged fields are stored under the snake_case of their name;
		// the default matcher only compares case-insensitively and would
		// miss multi-word names like HomeTown / home_town.
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == snakeCase(fieldName)
		},
		Result: out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(rec.Map()); err != nil {
		return nil, fmt.Errorf("failed to decode %q into %T: %w", rec.ID, out, err)
	}

	id, err := r.info.desc.Codec.Decode(rec.ID)
	if err != nil {
		return nil, err
	}
	if err := setIdentity(reflect.ValueOf(out).Elem().Field(r.info.idIndex), id); err != nil {
		return nil, fmt.Errorf("identity of %q: %w", rec.ID, err)
	}
	return out, nil
}

func setIdentity(fv reflect.Value, id any) error {
	iv := reflect.ValueOf(id)
	if iv.Type().AssignableTo(fv.Type()) {
		fv.Set(iv)
		return nil
	}
	// The uuid codec yields schema.Key; unwrap for uuid.UUID fields.
	if k, ok := id.(schema.Key); ok && fv.Type() == uuidType {
		fv.Set(reflect.ValueOf(k.UUID()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", id, fv.Type())
}
