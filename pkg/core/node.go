// Node is the central value of the domain.
package core

import (
	"fmt"
	"strings"
)

// Kind classifies a node in the document tree.
type Kind int

const (
	// KindAbsent means no node exists at the path.
	KindAbsent Kind = iota
	// KindMap is a mapping from string keys to child nodes.
	KindMap
	// KindList is an ordered sequence of child nodes.
	KindList
	// KindScalar is a leaf value.
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindScalar:
		return "scalar"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ScalarKind classifies the payload of a scalar node.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarString
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarBytes
)

func (s ScalarKind) String() string {
	switch s {
	case ScalarNull:
		return "null"
	case ScalarString:
		return "string"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	case ScalarBytes:
		return "bytes"
	}
	return fmt.Sprintf("ScalarKind(%d)", int(s))
}

// Node is one element of the document tree as seen through the Document
// interface. Map and list nodes carry no children here; their contents are
// always read through the document handle so that the engine never holds a
// private copy of a subtree.
type Node struct {
	Kind  Kind
	Value any // scalar payload; nil for maps, lists and null scalars
}

// MapNode returns a node describing an empty map.
func MapNode() Node {
	return Node{Kind: KindMap}
}

// ListNode returns a node describing an empty list.
func ListNode() Node {
	return Node{Kind: KindList}
}

// ScalarNode normalizes a Go value into a scalar node.
// Integers widen to int64 and floats to float64; nil becomes a null scalar.
func ScalarNode(v any) (Node, error) {
	switch t := v.(type) {
	case nil:
		return Node{Kind: KindScalar}, nil
	case string:
		return Node{Kind: KindScalar, Value: t}, nil
	case bool:
		return Node{Kind: KindScalar, Value: t}, nil
	case []byte:
		return Node{Kind: KindScalar, Value: t}, nil
	case int:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case int8:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case int16:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case int32:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case int64:
		return Node{Kind: KindScalar, Value: t}, nil
	case uint:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case uint8:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case uint16:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case uint32:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case uint64:
		return Node{Kind: KindScalar, Value: int64(t)}, nil
	case float32:
		return Node{Kind: KindScalar, Value: float64(t)}, nil
	case float64:
		return Node{Kind: KindScalar, Value: t}, nil
	}
	return Node{}, fmt.Errorf("%w: unsupported scalar value %T", ErrTypeMismatch, v)
}

// ScalarKindOf reports the scalar kind of a node's payload.
// Only meaningful for KindScalar nodes.
func (n Node) ScalarKindOf() ScalarKind {
	switch n.Value.(type) {
	case nil:
		return ScalarNull
	case string:
		return ScalarString
	case int64:
		return ScalarInt
	case float64:
		return ScalarFloat
	case bool:
		return ScalarBool
	case []byte:
		return ScalarBytes
	}
	return ScalarNull
}

// Path addresses a node in the document tree. Each segment is a map key;
// when the parent node is a list, the segment is a decimal index.
type Path []string

// Child returns a new path with an extra trailing segment.
// The receiver is never mutated.
func (p Path) Child(segment string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, segment)
}

// Parent returns the path without its last segment, and the segment itself.
func (p Path) Parent() (Path, string) {
	if len(p) == 0 {
		return nil, ""
	}
	return p[:len(p)-1], p[len(p)-1]
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// ParsePath splits a slash-separated string into a path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "/"))
}
