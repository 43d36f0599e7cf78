package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

func TestScalarNodeNormalization(t *testing.T) {
	cases := []struct {
		in   any
		want any
		kind core.ScalarKind
	}{
		{nil, nil, core.ScalarNull},
		{"hi", "hi", core.ScalarString},
		{true, true, core.ScalarBool},
		{int(3), int64(3), core.ScalarInt},
		{int8(3), int64(3), core.ScalarInt},
		{uint32(3), int64(3), core.ScalarInt},
		{uint64(3), int64(3), core.ScalarInt},
		{float32(1.5), float64(1.5), core.ScalarFloat},
		{float64(1.5), float64(1.5), core.ScalarFloat},
		{[]byte{0x1}, []byte{0x1}, core.ScalarBytes},
	}
	for _, c := range cases {
		n, err := core.ScalarNode(c.in)
		require.NoError(t, err, "value %v (%T)", c.in, c.in)
		assert.Equal(t, core.KindScalar, n.Kind)
		assert.Equal(t, c.want, n.Value)
		assert.Equal(t, c.kind, n.ScalarKindOf())
	}
}

func TestScalarNodeRejectsComposites(t *testing.T) {
	for _, v := range []any{map[string]any{}, []any{}, struct{}{}, make(chan int)} {
		_, err := core.ScalarNode(v)
		assert.True(t, errors.Is(err, core.ErrTypeMismatch), "value %T", v)
	}
}

func TestPathChildDoesNotMutate(t *testing.T) {
	base := core.Path{"contacts"}
	a := base.Child("a")
	b := base.Child("b")

	assert.Equal(t, core.Path{"contacts", "a"}, a)
	assert.Equal(t, core.Path{"contacts", "b"}, b)
	assert.Equal(t, core.Path{"contacts"}, base)
}

func TestPathParent(t *testing.T) {
	p := core.Path{"contacts", "c1"}
	parent, last := p.Parent()
	assert.Equal(t, core.Path{"contacts"}, parent)
	assert.Equal(t, "c1", last)

	parent, last = core.Path{}.Parent()
	assert.Nil(t, parent)
	assert.Equal(t, "", last)
}

func TestParsePath(t *testing.T) {
	assert.Equal(t, core.Path{"contacts", "c1", "name"}, core.ParsePath("contacts/c1/name"))
	assert.Nil(t, core.ParsePath(""))
	assert.Equal(t, "contacts/c1", core.Path{"contacts", "c1"}.String())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "absent", core.KindAbsent.String())
	assert.Equal(t, "map", core.KindMap.String())
	assert.Equal(t, "list", core.KindList.String())
	assert.Equal(t, "scalar", core.KindScalar.String())
}
