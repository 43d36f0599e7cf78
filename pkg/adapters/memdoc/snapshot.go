package memdoc

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// LoadYAML replaces the document contents with the tree encoded in data.
// The top-level value must be a mapping.
func (d *Document) LoadYAML(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse document snapshot: %w", err)
	}

	root, err := normalizeMap(raw)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if root == nil {
		root = make(map[string]any)
	}
	d.root = root
	return nil
}

// DumpYAML renders the whole document tree as YAML.
func (d *Document) DumpYAML() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out, err := yaml.Marshal(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document snapshot: %w", err)
	}
	return out, nil
}

// normalize converts decoded YAML values into the tree's canonical forms:
// map[string]any, []any, and the normalized scalar set.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string map key %v", core.ErrShapeMismatch, k)
			}
			norm, err := normalize(val)
			if err != nil {
				return nil, err
			}
			m[ks] = norm
		}
		return m, nil
	case []any:
		l := make([]any, len(t))
		for i, item := range t {
			norm, err := normalize(item)
			if err != nil {
				return nil, err
			}
			l[i] = norm
		}
		return l, nil
	case nil:
		return nil, nil
	}
	n, err := core.ScalarNode(v)
	if err != nil {
		return nil, err
	}
	return n.Value, nil
}

func normalizeMap(raw map[string]any) (map[string]any, error) {
	m := make(map[string]any, len(raw))
	for k, v := range raw {
		norm, err := normalize(v)
		if err != nil {
			return nil, err
		}
		m[k] = norm
	}
	return m, nil
}
