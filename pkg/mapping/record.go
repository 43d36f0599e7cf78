// Package mapping implements the bidirectional engine between document
// subtrees and entity instances: hydration (document to instance) and
// reconciliation (instance to document). It works on dynamic Record values
// driven by schema descriptors; typed struct access is layered on top in
// pkg/typed.
package mapping

import "maps"

// Record is the dynamic form of an entity instance.
//
// Fields maps declared field keys to values: string, int64, float64, bool,
// []byte for scalars, *Record for nested entities. An optional field that
// is absent is represented by a missing key or a nil value; the two are
// equivalent.
type Record struct {
	// ID is the rendered map-key form of the identity. Hydration fills it
	// from the map key under which the node was found; reconciliation uses
	// it to place the subtree. Empty for embedded-only records.
	ID     string
	Fields map[string]any
}

// NewRecord creates an empty record with the given identity key.
func NewRecord(id string) *Record {
	return &Record{ID: id, Fields: make(map[string]any)}
}

// Set assigns a field value and returns the record for chaining.
func (r *Record) Set(key string, v any) *Record {
	r.Fields[key] = v
	return r
}

// Get returns a field value; absent and nil are both (nil, false).
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Map returns a deep plain-map view of the record, with nested records
// flattened to map[string]any. The identity is not included.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		if nested, ok := v.(*Record); ok {
			if nested == nil {
				continue
			}
			out[k] = nested.Map()
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{ID: r.ID, Fields: make(map[string]any, len(r.Fields))}
	maps.Copy(out.Fields, r.Fields)
	for k, v := range out.Fields {
		if nested, ok := v.(*Record); ok && nested != nil {
			out.Fields[k] = nested.Clone()
		}
	}
	return out
}
