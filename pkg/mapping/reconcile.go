package mapping

import (
	"context"
	"fmt"

	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// Reconcile writes a record's fields into the document subtree at path.
//
// An existing map node at path is reused, never replaced, so document keys
// outside the descriptor survive reconciliation untouched. Updates are
// applied field at a time: a failure partway through leaves earlier sibling
// writes in place (the engine gives no cross-field atomicity). An optional
// field carried as nil deletes its document key; the identity is expressed
// purely through the path and never written as a field value.
func Reconcile(ctx context.Context, doc core.Document, reg *schema.Registry, desc schema.Descriptor, path core.Path, rec *Record) error {
	kind, err := doc.Kind(ctx, path)
	if err != nil {
		return err
	}
	switch kind {
	case core.KindAbsent:
		if err := doc.Put(ctx, path, core.MapNode()); err != nil {
			return err
		}
	case core.KindMap:
	default:
		return fmt.Errorf("%w: expected map at %s, found %s", core.ErrShapeMismatch, path, kind)
	}

	for _, f := range desc.Fields {
		if err := reconcileField(ctx, doc, reg, f, path.Child(f.Key), rec.Fields[f.Key]); err != nil {
			return err
		}
	}
	return nil
}

func reconcileField(ctx context.Context, doc core.Document, reg *schema.Registry, f schema.Field, path core.Path, v any) error {
	if isNil(v) {
		if !f.Optional {
			return fmt.Errorf("%w: %s", core.ErrMissingField, path)
		}
		// Explicit absence is reconciled, not left stale.
		kind, err := doc.Kind(ctx, path)
		if err != nil {
			return err
		}
		if kind != core.KindAbsent {
			return doc.Delete(ctx, path)
		}
		return nil
	}

	if f.Kind == schema.FieldEntity {
		child, ok := v.(*Record)
		if !ok {
			return fmt.Errorf("%w: expected nested record at %s, found %T", core.ErrTypeMismatch, path, v)
		}
		nested, err := reg.Resolve(f.TypeID)
		if err != nil {
			return err
		}
		return Reconcile(ctx, doc, reg, nested, path, child)
	}

	n, err := scalarNode(f, v, path)
	if err != nil {
		return err
	}
	return doc.Put(ctx, path, n)
}

// isNil treats both untyped nil and nil typed pointers as absence.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	if rec, ok := v.(*Record); ok {
		return rec == nil
	}
	return false
}

// scalarNode checks a field value against its declared kind and normalizes
// it into a scalar node.
func scalarNode(f schema.Field, v any, path core.Path) (core.Node, error) {
	n, err := core.ScalarNode(v)
	if err != nil {
		return core.Node{}, fmt.Errorf("%w at %s", err, path)
	}

	got := n.ScalarKindOf()
	want := got
	switch f.Kind {
	case schema.FieldString:
		want = core.ScalarString
	case schema.FieldInt:
		want = core.ScalarInt
	case schema.FieldFloat:
		want = core.ScalarFloat
		if got == core.ScalarInt {
			n.Value = float64(n.Value.(int64))
			got = core.ScalarFloat
		}
	case schema.FieldBool:
		want = core.ScalarBool
	case schema.FieldBytes:
		want = core.ScalarBytes
	}
	if got != want {
		return core.Node{}, fmt.Errorf("%w: expected %s at %s, found %s", core.ErrTypeMismatch, f.Kind, path, got)
	}
	return n, nil
}
