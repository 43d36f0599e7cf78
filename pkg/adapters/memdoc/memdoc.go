// Package memdoc implements core.Document over an in-memory tree.
//
// It is the reference collaborator for the mapping engine: every operation
// is applied atomically behind a mutex, which gives the engine the
// per-call snapshot and single-writer granularity it assumes. The real
// CRDT-backed store is expected to provide the same interface.
package memdoc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// Config holds the configuration for the in-memory document.
type Config struct {
	Logger *slog.Logger
}

// Document is a mutex-guarded in-memory document tree.
// Internally nodes are map[string]any, []any or normalized scalars.
type Document struct {
	mu     sync.RWMutex
	root   map[string]any
	logger *slog.Logger
}

// New creates an empty document.
func New(config Config) *Document {
	return &Document{
		root:   make(map[string]any),
		logger: config.Logger,
	}
}

// Get implements core.Document.
func (d *Document) Get(ctx context.Context, path core.Path) (core.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.lookup(path)
	if !ok {
		return core.Node{}, fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	}
	return nodeOf(v), nil
}

// Put implements core.Document. Intermediate map nodes are created along
// the path; an intermediate that exists but is not a map fails with
// ErrShapeMismatch. Map and list nodes are written as empty containers.
func (d *Document) Put(ctx context.Context, path core.Path, n core.Node) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: cannot replace the document root", core.ErrShapeMismatch)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	parent, err := d.ensureParents(path)
	if err != nil {
		return err
	}

	var v any
	switch n.Kind {
	case core.KindMap:
		v = map[string]any{}
	case core.KindList:
		v = []any{}
	case core.KindScalar:
		norm, err := core.ScalarNode(n.Value)
		if err != nil {
			return err
		}
		v = norm.Value
	default:
		return fmt.Errorf("%w: cannot write an absent node at %s", core.ErrShapeMismatch, path)
	}

	last := path[len(path)-1]
	if l, ok := parent.([]any); ok {
		// Writing one past the end appends to the list.
		if idx, err := strconv.Atoi(last); err == nil && idx == len(l) {
			return d.replace(path[:len(path)-1], append(l, v))
		}
	}
	return setChild(parent, last, v, path)
}

// Delete implements core.Document. Deleting an absent node is a no-op.
func (d *Document) Delete(ctx context.Context, path core.Path) error {
	if len(path) == 0 {
		d.mu.Lock()
		d.root = make(map[string]any)
		d.mu.Unlock()
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	parent, ok := d.lookup(path[:len(path)-1])
	if !ok {
		return nil
	}
	last := path[len(path)-1]
	switch p := parent.(type) {
	case map[string]any:
		delete(p, last)
	case []any:
		// List elements shift on delete; out-of-range is a no-op.
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(p) {
			return nil
		}
		updated := append(p[:idx:idx], p[idx+1:]...)
		return d.replace(path[:len(path)-1], updated)
	}
	return nil
}

// Keys implements core.Document.
func (d *Document) Keys(ctx context.Context, path core.Path) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map at %s", core.ErrShapeMismatch, path)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Items implements core.Document.
func (d *Document) Items(ctx context.Context, path core.Path) ([]core.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected list at %s", core.ErrShapeMismatch, path)
	}
	items := make([]core.Node, len(l))
	for i, item := range l {
		items[i] = nodeOf(item)
	}
	return items, nil
}

// Kind implements core.Document.
func (d *Document) Kind(ctx context.Context, path core.Path) (core.Kind, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.lookup(path)
	if !ok {
		return core.KindAbsent, nil
	}
	return nodeOf(v).Kind, nil
}

// lookup walks the tree without locking; callers hold the mutex.
func (d *Document) lookup(path core.Path) (any, bool) {
	var cur any = d.root
	for _, seg := range path {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// ensureParents walks to the parent of path, creating intermediate maps.
func (d *Document) ensureParents(path core.Path) (any, error) {
	var cur any = d.root
	for i, seg := range path[:len(path)-1] {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				v = map[string]any{}
				c[seg] = v
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, fmt.Errorf("%w: no list element at %s", core.ErrShapeMismatch, path[:i+1])
			}
			cur = c[idx]
		default:
			return nil, fmt.Errorf("%w: segment %s is not a container", core.ErrShapeMismatch, path[:i+1])
		}
		if _, ok := cur.(map[string]any); !ok {
			if _, ok := cur.([]any); !ok {
				return nil, fmt.Errorf("%w: segment %s is not a container", core.ErrShapeMismatch, path[:i+1])
			}
		}
	}
	return cur, nil
}

// replace swaps the container stored at path with an updated value.
func (d *Document) replace(path core.Path, v any) error {
	if len(path) == 0 {
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: document root must be a map", core.ErrShapeMismatch)
		}
		d.root = m
		return nil
	}
	parent, ok := d.lookup(path[:len(path)-1])
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNodeNotFound, path)
	}
	return setChild(parent, path[len(path)-1], v, path)
}

func setChild(parent any, key string, v any, path core.Path) error {
	switch p := parent.(type) {
	case map[string]any:
		p[key] = v
		return nil
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(p) {
			return fmt.Errorf("%w: no list element at %s", core.ErrShapeMismatch, path)
		}
		p[idx] = v
		return nil
	}
	return fmt.Errorf("%w: parent of %s is not a container", core.ErrShapeMismatch, path)
}

func nodeOf(v any) core.Node {
	switch v.(type) {
	case map[string]any:
		return core.MapNode()
	case []any:
		return core.ListNode()
	}
	n, err := core.ScalarNode(v)
	if err != nil {
		// Trees only ever hold normalized values; unreachable in practice.
		return core.Node{Kind: core.KindScalar}
	}
	return n
}

var _ core.Document = (*Document)(nil)
