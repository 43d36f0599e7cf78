package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

func contactDescriptor() schema.Descriptor {
	return schema.Descriptor{
		TypeID:     "contact",
		Collection: "contacts",
		Identity:   "id",
		Codec:      schema.UUIDCodec{},
		Fields: []schema.Field{
			{Key: "name", Kind: schema.FieldString},
			{Key: "age", Kind: schema.FieldInt, Optional: true},
		},
	}
}

func TestRegisterAndResolve(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(contactDescriptor()))

	desc, err := reg.Resolve("contact")
	require.NoError(t, err)
	assert.Equal(t, "contacts", desc.Collection)
	assert.Len(t, desc.Fields, 2)
}

func TestRegisterIdempotent(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(contactDescriptor()))
	require.NoError(t, reg.Register(contactDescriptor()))
	assert.Equal(t, []string{"contact"}, reg.Types())
}

func TestRegisterConflict(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(contactDescriptor()))

	changed := contactDescriptor()
	changed.Fields[1].Kind = schema.FieldString
	err := reg.Register(changed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConflictingSchema))

	// The original registration is untouched.
	desc, err := reg.Resolve("contact")
	require.NoError(t, err)
	assert.Equal(t, schema.FieldInt, desc.Fields[1].Kind)
}

func TestResolveUnregistered(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := reg.Resolve("ghost")
	assert.True(t, errors.Is(err, core.ErrUnregisteredType))
}

func TestRegisterRejectsInvalidDescriptor(t *testing.T) {
	reg := schema.NewRegistry()

	cases := map[string]schema.Descriptor{
		"no type id": {
			Collection: "things",
			Identity:   "id",
			Codec:      schema.StringCodec{},
		},
		"collection without codec": {
			TypeID:     "thing",
			Collection: "things",
			Identity:   "id",
		},
		"embedded with identity": {
			TypeID:   "thing",
			Identity: "id",
			Codec:    schema.StringCodec{},
		},
		"duplicate field keys": {
			TypeID:     "thing",
			Collection: "things",
			Identity:   "id",
			Codec:      schema.StringCodec{},
			Fields: []schema.Field{
				{Key: "a", Kind: schema.FieldString},
				{Key: "a", Kind: schema.FieldInt},
			},
		},
		"entity field without type id": {
			TypeID:     "thing",
			Collection: "things",
			Identity:   "id",
			Codec:      schema.StringCodec{},
			Fields: []schema.Field{
				{Key: "child", Kind: schema.FieldEntity},
			},
		},
	}
	for name, desc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, reg.Register(desc))
		})
	}
}
