package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/localstore"
	"bookshop/internal/product"
)

func newCart(t *testing.T) *Cart {
	t.Helper()
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	return New(store)
}

func line(id int, format product.Format) LineItem {
	return LineItem{ID: id, Name: "Solaris", Price: "29.99", Format: format}
}

func TestAddMergesBySameKey(t *testing.T) {
	c := newCart(t)

	require.NoError(t, c.Add(line(1, product.FormatPhysical)))
	require.NoError(t, c.Add(line(1, product.FormatPhysical)))

	items, err := c.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddKeepsFormatsAsDistinctLines(t *testing.T) {
	c := newCart(t)

	require.NoError(t, c.Add(line(1, product.FormatPhysical)))
	require.NoError(t, c.Add(line(1, product.FormatEbook)))

	items, err := c.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestAddIgnoresCallerQuantity(t *testing.T) {
	c := newCart(t)

	it := line(1, product.FormatPhysical)
	it.Quantity = 7
	require.NoError(t, c.Add(it))

	items, err := c.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(line(1, product.FormatPhysical)))

	key := Key{ID: 1, Format: product.FormatPhysical}
	require.NoError(t, c.Remove(key))
	require.NoError(t, c.Remove(key))

	items, err := c.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveMatchesFormat(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(line(1, product.FormatPhysical)))
	require.NoError(t, c.Add(line(1, product.FormatEbook)))

	require.NoError(t, c.Remove(Key{ID: 1, Format: product.FormatPhysical}))

	items, err := c.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.FormatEbook, items[0].Format)
}

func TestSetQuantity(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(line(1, product.FormatPhysical)))
	key := Key{ID: 1, Format: product.FormatPhysical}

	require.NoError(t, c.SetQuantity(key, 5))
	items, err := c.Items()
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)

	// Values below 1 are silently ignored, never a removal.
	require.NoError(t, c.SetQuantity(key, 0))
	require.NoError(t, c.SetQuantity(key, -3))
	items, err = c.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, "59.98", Total([]LineItem{
		{ID: 1, Price: "29.99", Quantity: 2},
	}))
	assert.Equal(t, "0.00", Total(nil))
	// Unparseable snapshots contribute zero.
	assert.Equal(t, "19.90", Total([]LineItem{
		{ID: 1, Price: "n/a", Quantity: 3},
		{ID: 2, Price: "19.90", Quantity: 1},
	}))
}

func TestPersistsAcrossInstances(t *testing.T) {
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, New(store).Add(line(1, product.FormatPhysical)))

	items, err := New(store).Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Solaris", items[0].Name)
}

func TestClear(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(line(1, product.FormatPhysical)))
	require.NoError(t, c.Clear())

	items, err := c.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemForSnapshotsProduct(t *testing.T) {
	p := product.Product{ID: 9, Title: "Lalka", Price: "45.50", ImageURL: "http://img/lalka.jpg"}
	it := ItemFor(p, product.FormatPhysical)

	assert.Equal(t, 9, it.ID)
	assert.Equal(t, "Lalka", it.Name)
	assert.Equal(t, product.Price("45.50"), it.Price)
	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, "http://img/lalka.jpg", it.Image)
}
