package mapping_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bowtieworks/automerge-orm/pkg/adapters/memdoc"
	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/mapping"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

func newRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	address := schema.Descriptor{
		TypeID: "address",
		Fields: []schema.Field{
			{Key: "street", Kind: schema.FieldString},
			{Key: "zip", Kind: schema.FieldString, Optional: true},
		},
	}
	contact := schema.Descriptor{
		TypeID:     "contact",
		Collection: "contacts",
		Identity:   "id",
		Codec:      schema.UUIDCodec{},
		Fields: []schema.Field{
			{Key: "name", Kind: schema.FieldString},
			{Key: "age", Kind: schema.FieldInt, Optional: true},
			{Key: "home", Kind: schema.FieldEntity, TypeID: "address", Optional: true},
		},
	}

	require.NoError(t, reg.Register(address))
	require.NoError(t, reg.Register(contact))
	return reg
}

func contactDesc(t *testing.T, reg *schema.Registry) schema.Descriptor {
	t.Helper()
	desc, err := reg.Resolve("contact")
	require.NoError(t, err)
	return desc
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	id := schema.NewKey().String()
	in := mapping.NewRecord(id).
		Set("name", "ringo").
		Set("age", int64(42)).
		Set("home", mapping.NewRecord("").Set("street", "abbey road"))

	path := core.Path{"contacts", id}
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, in))

	out, err := mapping.Hydrate(ctx, doc, reg, desc, path)
	require.NoError(t, err)

	assert.Equal(t, id, out.ID)
	assert.Equal(t, "ringo", out.Fields["name"])
	assert.Equal(t, int64(42), out.Fields["age"])
	home, ok := out.Fields["home"].(*mapping.Record)
	require.True(t, ok, "home should hydrate as a nested record")
	assert.Equal(t, "", home.ID, "embedded-only records carry no identity")
	assert.Equal(t, "abbey road", home.Fields["street"])
	_, hasZip := home.Get("zip")
	assert.False(t, hasZip, "absent optional field should stay absent")
}

func TestFieldPreservation(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	id := schema.NewKey().String()
	path := core.Path{"contacts", id}

	// A key the descriptor knows nothing about.
	extra := path.Child("legacy_flag")
	n, err := core.ScalarNode(true)
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, extra, n))

	rec := mapping.NewRecord(id).Set("name", "paul")
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, rec))

	got, err := doc.Get(ctx, extra)
	require.NoError(t, err)
	assert.Equal(t, true, got.Value, "unknown keys must survive reconciliation")

	// And hydration ignores them without error.
	out, err := mapping.Hydrate(ctx, doc, reg, desc, path)
	require.NoError(t, err)
	assert.Equal(t, "paul", out.Fields["name"])
	_, hasExtra := out.Fields["legacy_flag"]
	assert.False(t, hasExtra)
}

func TestOptionalFieldClearing(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	id := schema.NewKey().String()
	path := core.Path{"contacts", id}

	with := mapping.NewRecord(id).Set("name", "john").Set("age", int64(40))
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, with))

	without := mapping.NewRecord(id).Set("name", "john")
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, without))

	kind, err := doc.Kind(ctx, path.Child("age"))
	require.NoError(t, err)
	assert.Equal(t, core.KindAbsent, kind, "nil optional field must delete its key")

	out, err := mapping.Hydrate(ctx, doc, reg, desc, path)
	require.NoError(t, err)
	_, hasAge := out.Get("age")
	assert.False(t, hasAge)
}

func TestIdentityFromPathSegment(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	key := schema.NewKey().String()
	path := core.Path{"contacts", key}

	// Stale content: the node carries a conflicting "id" value.
	n, err := core.ScalarNode("someone-else")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("id"), n))
	n, err = core.ScalarNode("george")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("name"), n))

	out, err := mapping.Hydrate(ctx, doc, reg, desc, path)
	require.NoError(t, err)
	assert.Equal(t, key, out.ID, "identity always comes from the map key")
}

func TestMissingRequiredField(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	id := schema.NewKey().String()
	path := core.Path{"contacts", id}
	n, err := core.ScalarNode(int64(7))
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("age"), n))

	_, err = mapping.Hydrate(ctx, doc, reg, desc, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingField), "want ErrMissingField, got %v", err)
	assert.False(t, errors.Is(err, core.ErrTypeMismatch))
	assert.False(t, errors.Is(err, core.ErrNodeNotFound))
}

func TestHydrateAbsentNode(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	_, err := mapping.Hydrate(ctx, doc, reg, desc, core.Path{"contacts", "nope"})
	assert.True(t, errors.Is(err, core.ErrNodeNotFound))
}

func TestHydrateShapeMismatch(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	path := core.Path{"contacts", "scalar-here"}
	n, err := core.ScalarNode("not a map")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path, n))

	_, err = mapping.Hydrate(ctx, doc, reg, desc, path)
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}

func TestHydrateTypeMismatch(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	path := core.Path{"contacts", "x"}
	n, err := core.ScalarNode(int64(5))
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("name"), n))

	_, err = mapping.Hydrate(ctx, doc, reg, desc, path)
	assert.True(t, errors.Is(err, core.ErrTypeMismatch))
}

func TestHydrateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	path := core.Path{"contacts", "x"}
	n, err := core.ScalarNode("ok")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("name"), n))
	n, err = core.ScalarNode("not an int")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("age"), n))

	rec, err := mapping.Hydrate(ctx, doc, reg, desc, path)
	require.Error(t, err)
	assert.Nil(t, rec, "no partial record on failure")
}

func TestReconcileReusesExistingMap(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	id := schema.NewKey().String()
	path := core.Path{"contacts", id}

	first := mapping.NewRecord(id).
		Set("name", "ringo").
		Set("home", mapping.NewRecord("").Set("street", "abbey road").Set("zip", "NW8"))
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, first))

	// A key the descriptor does not declare, written under the nested node.
	n, err := core.ScalarNode("annotation")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path.Child("home").Child("note"), n))

	// Update only the street; the zip written earlier must survive because
	// the nested map node is reused, not replaced.
	second := mapping.NewRecord(id).
		Set("name", "ringo").
		Set("home", mapping.NewRecord("").Set("street", "penny lane"))
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, second))

	// zip is optional and nil in the second record, so it is cleared.
	kind, err := doc.Kind(ctx, path.Child("home").Child("zip"))
	require.NoError(t, err)
	assert.Equal(t, core.KindAbsent, kind)

	got, err := doc.Get(ctx, path.Child("home").Child("street"))
	require.NoError(t, err)
	assert.Equal(t, "penny lane", got.Value)

	// The undeclared key survives because the nested map was reused.
	got, err = doc.Get(ctx, path.Child("home").Child("note"))
	require.NoError(t, err)
	assert.Equal(t, "annotation", got.Value)
}

func TestReconcileMissingRequiredField(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	id := schema.NewKey().String()
	rec := mapping.NewRecord(id) // no name
	err := mapping.Reconcile(ctx, doc, reg, desc, core.Path{"contacts", id}, rec)
	assert.True(t, errors.Is(err, core.ErrMissingField))
}

func TestReconcileShapeMismatch(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := newRegistry(t)
	desc := contactDesc(t, reg)

	// The entity path is occupied by a scalar.
	path := core.Path{"contacts", "taken"}
	n, err := core.ScalarNode("oops")
	require.NoError(t, err)
	require.NoError(t, doc.Put(ctx, path, n))

	rec := mapping.NewRecord("taken").Set("name", "x")
	err = mapping.Reconcile(ctx, doc, reg, desc, path, rec)
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}

func TestReconcileIntWidening(t *testing.T) {
	ctx := context.Background()
	doc := memdoc.New(memdoc.Config{})
	reg := schema.NewRegistry()
	desc := schema.Descriptor{
		TypeID:     "reading",
		Collection: "readings",
		Identity:   "id",
		Codec:      schema.StringCodec{},
		Fields: []schema.Field{
			{Key: "value", Kind: schema.FieldFloat},
		},
	}
	require.NoError(t, reg.Register(desc))

	rec := mapping.NewRecord("r1").Set("value", 3) // plain int
	path := core.Path{"readings", "r1"}
	require.NoError(t, mapping.Reconcile(ctx, doc, reg, desc, path, rec))

	out, err := mapping.Hydrate(ctx, doc, reg, desc, path)
	require.NoError(t, err)
	assert.Equal(t, float64(3), out.Fields["value"])
}
