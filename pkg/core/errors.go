package core

import "errors"

// Common errors. Every operation reports failures through one of these
// kinds, wrapped with context; match with errors.Is.
var (
	// ErrUnregisteredType is returned when a type is resolved before it was
	// registered.
	ErrUnregisteredType = errors.New("entity type is not registered")

	// ErrConflictingSchema is returned when a type is registered twice with
	// different shapes.
	ErrConflictingSchema = errors.New("conflicting schema for entity type")

	// ErrInvalidIdentity is returned when an identity value cannot be
	// rendered as a map key.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrNodeNotFound is returned when a path does not resolve to a node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrShapeMismatch is returned when a node has the wrong structural
	// kind for the operation (e.g. a scalar where a map is required).
	ErrShapeMismatch = errors.New("node shape mismatch")

	// ErrMissingField is returned when hydration finds no node for a
	// required field.
	ErrMissingField = errors.New("missing required field")

	// ErrTypeMismatch is returned when a field value has the wrong scalar
	// kind for its schema.
	ErrTypeMismatch = errors.New("field type mismatch")

	// ErrEntityExists is returned by Insert when the identity is already
	// present in the collection.
	ErrEntityExists = errors.New("entity already exists")

	// ErrKeyMismatch is returned when a constructed entity reports a
	// different identity than the one it was requested under.
	ErrKeyMismatch = errors.New("entity key mismatch")
)
