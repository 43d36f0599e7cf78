package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// Hydrate reads the document subtree at path and materializes a record for
// the described entity type, recursing into nested entity fields.
//
// Hydration is read-only and all-or-nothing: the document is never mutated
// and no partial record is returned on failure. For collection types the
// record's identity is taken from the final path segment, not from document
// content, so it always matches the structural location; embedded-only
// records carry no identity. Keys present in the node but absent from the
// descriptor are ignored.
func Hydrate(ctx context.Context, doc core.Document, reg *schema.Registry, desc schema.Descriptor, path core.Path) (*Record, error) {
	kind, err := doc.Kind(ctx, path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case core.KindAbsent:
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	case core.KindMap:
	default:
		return nil, fmt.Errorf("%w: expected map at %s, found %s", core.ErrShapeMismatch, path, kind)
	}

	rec := NewRecord("")
	if desc.Identity != "" {
		_, id := path.Parent()
		rec.ID = id
	}

	for _, f := range desc.Fields {
		v, err := hydrateField(ctx, doc, reg, f, path.Child(f.Key))
		if err != nil {
			return nil, err
		}
		if v != nil {
			rec.Fields[f.Key] = v
		}
	}
	return rec, nil
}

func hydrateField(ctx context.Context, doc core.Document, reg *schema.Registry, f schema.Field, path core.Path) (any, error) {
	if f.Kind == schema.FieldEntity {
		nested, err := reg.Resolve(f.TypeID)
		if err != nil {
			return nil, err
		}
		child, err := Hydrate(ctx, doc, reg, nested, path)
		if err != nil {
			if f.Optional && errors.Is(err, core.ErrNodeNotFound) {
				return nil, nil
			}
			if errors.Is(err, core.ErrNodeNotFound) {
				return nil, fmt.Errorf("%w: %s", core.ErrMissingField, path)
			}
			return nil, err
		}
		return child, nil
	}

	n, err := doc.Get(ctx, path)
	if err != nil {
		if errors.Is(err, core.ErrNodeNotFound) {
			if f.Optional {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s", core.ErrMissingField, path)
		}
		return nil, err
	}
	if n.Kind != core.KindScalar {
		return nil, fmt.Errorf("%w: expected %s scalar at %s, found %s", core.ErrTypeMismatch, f.Kind, path, n.Kind)
	}
	return coerceScalar(f, n, path)
}

// coerceScalar converts a scalar node's payload to the field's value type.
// Integers may widen to floats; every other cross-kind read is a mismatch.
func coerceScalar(f schema.Field, n core.Node, path core.Path) (any, error) {
	if n.Value == nil {
		if f.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: null value at %s for required %s field", core.ErrTypeMismatch, path, f.Kind)
	}

	switch f.Kind {
	case schema.FieldString:
		if s, ok := n.Value.(string); ok {
			return s, nil
		}
	case schema.FieldInt:
		if i, ok := n.Value.(int64); ok {
			return i, nil
		}
	case schema.FieldFloat:
		switch t := n.Value.(type) {
		case float64:
			return t, nil
		case int64:
			return float64(t), nil
		}
	case schema.FieldBool:
		if b, ok := n.Value.(bool); ok {
			return b, nil
		}
	case schema.FieldBytes:
		if b, ok := n.Value.([]byte); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: expected %s at %s, found %s", core.ErrTypeMismatch, f.Kind, path, n.ScalarKindOf())
}
