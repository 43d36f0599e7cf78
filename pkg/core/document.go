package core

import "context"

// Document defines the contract for the backing document store.
// Adhering to this interface keeps the mapping engine independent of the
// store's merge algorithm and persistence format (Automerge, in-memory,
// file-backed, etc). Every read and write goes through this handle; the
// engine never caches subtrees.
//
// Concurrency: each call must observe or apply a consistent state on its
// own. The engine performs no locking and assumes either snapshot reads and
// atomic per-key writes, or a single logical writer.
type Document interface {
	// Get returns the node at path. It fails with ErrNodeNotFound when the
	// path does not resolve to a node.
	Get(ctx context.Context, path Path) (Node, error)

	// Put writes a node at path, creating intermediate map nodes along the
	// way. It fails with ErrShapeMismatch when an intermediate segment
	// exists but is not a map. Putting a map or list node replaces whatever
	// is at path with an empty container.
	Put(ctx context.Context, path Path, n Node) error

	// Delete removes the node at path if present. Deleting an absent node
	// is a no-op; callers that need existence semantics check Kind first.
	Delete(ctx context.Context, path Path) error

	// Keys returns the child keys of the map node at path.
	// Fails with ErrNodeNotFound when absent, ErrShapeMismatch when the
	// node is not a map.
	Keys(ctx context.Context, path Path) ([]string, error)

	// Items returns the elements of the list node at path.
	// Fails with ErrNodeNotFound when absent, ErrShapeMismatch when the
	// node is not a list.
	Items(ctx context.Context, path Path) ([]Node, error)

	// Kind reports what lives at path. Absence is KindAbsent, not an error.
	Kind(ctx context.Context, path Path) (Kind, error)
}

// EventType represents the type of change observed on a document.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents an externally observed change of a document.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}

// Watchable is implemented by documents that can report external changes.
type Watchable interface {
	// Watch emits an event whenever the document changes underneath the
	// handle. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}
