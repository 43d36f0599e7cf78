package typed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bowtieworks/automerge-orm/pkg/adapters/memdoc"
	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/entity"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
	"github.com/bowtieworks/automerge-orm/pkg/typed"
)

func newTypedManager(t *testing.T) *entity.Manager {
	t.Helper()
	return entity.NewManager(memdoc.New(memdoc.Config{}), schema.NewRegistry(), entity.Config{})
}

func TestTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	age := 36
	in := &Contact{
		ID:   schema.NewKey(),
		Name: "Ada Lovelace",
		Age:  &age,
		Home: &Address{Street: "St James's Square", Zip: "SW1Y"},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Find(ctx, in.ID)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "Ada Lovelace", out.Name)
	require.NotNil(t, out.Age)
	assert.Equal(t, 36, *out.Age)
	require.NotNil(t, out.Home)
	assert.Equal(t, "St James's Square", out.Home.Street)
}

func TestTypedOptionalClearing(t *testing.T) {
	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	age := 50
	c := &Contact{ID: schema.NewKey(), Name: "Alan", Age: &age}
	require.NoError(t, repo.Save(ctx, c))

	c.Age = nil
	require.NoError(t, repo.Save(ctx, c))

	out, err := repo.Find(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Nil(t, out.Age, "saving a nil optional clears the stored value")
}

func TestTypedFindAbsent(t *testing.T) {
	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	out, err := repo.Find(ctx, schema.NewKey())
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestTypedAll(t *testing.T) {
	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	names := map[string]bool{"ada": false, "alan": false}
	for name := range names {
		require.NoError(t, repo.Save(ctx, &Contact{ID: schema.NewKey(), Name: name}))
	}

	count := 0
	for c, err := range repo.All(ctx) {
		require.NoError(t, err)
		names[c.Name] = true
		count++
	}
	assert.Equal(t, 2, count)
	for name, seen := range names {
		assert.True(t, seen, "missing %s", name)
	}
}

func TestTypedInsertUpdateDelete(t *testing.T) {
	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	c := &Contact{ID: schema.NewKey(), Name: "Grace"}

	err = repo.Update(ctx, c)
	assert.True(t, errors.Is(err, core.ErrNodeNotFound))

	require.NoError(t, repo.Insert(ctx, c))
	err = repo.Insert(ctx, c)
	assert.True(t, errors.Is(err, core.ErrEntityExists))

	c.Name = "Grace Hopper"
	require.NoError(t, repo.Update(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))
	err = repo.Delete(ctx, c.ID)
	assert.True(t, errors.Is(err, core.ErrNodeNotFound))
}

func TestTypedSharesRegistry(t *testing.T) {
	mgr := newTypedManager(t)

	_, err := typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	// A second construction of the same shape is fine.
	_, err = typed.NewRepository[Contact](mgr)
	require.NoError(t, err)

	// A different shape claiming the same type id conflicts.
	changed := schema.Descriptor{
		TypeID:     "typed_test.Contact",
		Collection: "contact",
		Identity:   "id",
		Codec:      schema.UUIDCodec{},
	}
	err = mgr.Registry().Register(changed)
	assert.True(t, errors.Is(err, core.ErrConflictingSchema))
}

func TestTypedUntaggedFieldRoundTrip(t *testing.T) {
	type Traveler struct {
		ID       schema.Key `automerge:"id,key"`
		HomeTown string
	}

	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[Traveler](mgr)
	require.NoError(t, err)

	in := &Traveler{ID: schema.NewKey(), HomeTown: "Liverpool"}
	require.NoError(t, repo.Save(ctx, in))

	// The untagged field is stored under the snake_case of its name.
	got, err := mgr.Document().Get(ctx, core.Path{"traveler", in.ID.String(), "home_town"})
	require.NoError(t, err)
	assert.Equal(t, "Liverpool", got.Value)

	// And it decodes back into the multi-word field, not to the zero value.
	out, err := repo.Find(ctx, in.ID)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Liverpool", out.HomeTown)
}

func TestTypedStringIdentity(t *testing.T) {
	ctx := context.Background()
	mgr := newTypedManager(t)
	repo, err := typed.NewRepository[OrderLine](mgr, typed.WithCollection("lines"))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, &OrderLine{Sku: "A-17", Quantity: 3}))

	out, err := repo.Find(ctx, "A-17")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "A-17", out.Sku)
	assert.Equal(t, 3, out.Quantity)

	// Identity is the map key, not a field under the node.
	kind, err := mgr.Document().Kind(ctx, core.Path{"lines", "A-17", "sku"})
	require.NoError(t, err)
	assert.Equal(t, core.KindAbsent, kind)
}
