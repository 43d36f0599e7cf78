package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// exportTree reads the subtree at path into plain Go values, going through
// the same document interface the engine uses.
func exportTree(ctx context.Context, doc core.Document, path core.Path) (any, error) {
	kind, err := doc.Kind(ctx, path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case core.KindAbsent:
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	case core.KindMap:
		keys, err := doc.Keys(ctx, path)
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(keys))
		for _, k := range keys {
			child, err := exportTree(ctx, doc, path.Child(k))
			if err != nil {
				return nil, err
			}
			m[k] = child
		}
		return m, nil
	case core.KindList:
		items, err := doc.Items(ctx, path)
		if err != nil {
			return nil, err
		}
		l := make([]any, len(items))
		for i := range items {
			child, err := exportTree(ctx, doc, path.Child(strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			l[i] = child
		}
		return l, nil
	}

	n, err := doc.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return n.Value, nil
}

// putTree merges plain Go values into the document at path. Maps merge
// key by key (existing map nodes are reused); scalars overwrite.
func putTree(ctx context.Context, doc core.Document, path core.Path, v any) error {
	switch t := v.(type) {
	case map[string]any:
		kind, err := doc.Kind(ctx, path)
		if err != nil {
			return err
		}
		if kind == core.KindAbsent {
			if err := doc.Put(ctx, path, core.MapNode()); err != nil {
				return err
			}
		} else if kind != core.KindMap {
			return fmt.Errorf("%w: expected map at %s, found %s", core.ErrShapeMismatch, path, kind)
		}
		for k, child := range t {
			if err := putTree(ctx, doc, path.Child(k), child); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if err := doc.Put(ctx, path, core.ListNode()); err != nil {
			return err
		}
		for i, item := range t {
			if err := putTree(ctx, doc, path.Child(strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
		return nil
	}

	n, err := core.ScalarNode(v)
	if err != nil {
		return err
	}
	return doc.Put(ctx, path, n)
}
