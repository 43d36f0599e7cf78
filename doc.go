// Package orm is the Composition Root for the automerge-orm library.
//
// It maps statically typed entities onto a schemaless, tree-shaped
// document as produced by a CRDT document store. The document is consumed
// through a narrow, path-addressed interface (core.Document); the engine
// never implements or alters the store's own merge semantics.
//
// Concepts:
//
//   - **Document**: an external tree of maps, lists and scalars, addressed
//     by paths and mutated in place through its own API.
//   - **Hydration**: reading a document subtree and materializing a typed
//     entity instance, including nested and optional fields. Read-only and
//     all-or-nothing.
//   - **Reconciliation**: writing an instance's fields back into the
//     subtree with minimal, field-level updates. Existing map nodes are
//     reused, so unrelated keys survive untouched.
//   - **Entity Manager**: wraps exactly one document handle and one type
//     registry; the entry point that hands out repositories.
//   - **Repository**: the per-type view over find/all/save/delete, either
//     dynamic (records) or typed (structs via `automerge` tags).
//
// Usage:
//
//	mgr, err := orm.Open("", orm.WithLogger(logger))
//
//	type Contact struct {
//		ID   orm.Key `automerge:"id,key"`
//		Name string  `automerge:"name"`
//	}
//
//	contacts, err := orm.NewTyped[Contact](mgr, orm.WithCollection("contacts"))
//	err = contacts.Save(ctx, &Contact{ID: orm.NewKey(), Name: "ringo"})
//
// The engine gives no cross-entity or cross-field atomicity: reconciliation
// applies one key write at a time, and concurrent writers merging their
// changes is the document store's contract.
package orm
