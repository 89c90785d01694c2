// Package cart maintains the locally persisted shopping cart. Line
// items are deduplicated by (product id, format): the same book as a
// printed copy and as an e-book are two distinct lines.
package cart

import (
	"strconv"

	"bookshop/internal/localstore"
	"bookshop/internal/product"
)

// Key identifies a line item for merge, removal and quantity updates.
type Key struct {
	ID     int
	Format product.Format
}

// LineItem is one cart entry. Name, price and image are snapshots
// taken at add time; later backend changes do not affect them.
type LineItem struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Price    product.Price  `json:"price"`
	Quantity int            `json:"quantity"`
	Format   product.Format `json:"format,omitempty"`
	Image    string         `json:"image,omitempty"`
}

// Key returns the deduplication key of the line.
func (li LineItem) Key() Key {
	return Key{ID: li.ID, Format: li.Format}
}

// ItemFor builds a quantity-1 line item snapshot of p.
func ItemFor(p product.Product, format product.Format) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.DisplayName(),
		Price:    p.Price,
		Quantity: 1,
		Format:   format,
		Image:    p.CoverImage(),
	}
}

// Cart reads and writes the persisted line item list. Every mutation
// rewrites the stored list as a whole.
type Cart struct {
	store *localstore.Store
}

func New(store *localstore.Store) *Cart {
	return &Cart{store: store}
}

// Items returns the persisted lines in insertion order. An absent
// cart is an empty cart.
func (c *Cart) Items() ([]LineItem, error) {
	var items []LineItem
	if err := c.store.Get(localstore.KeyCart, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add merges item into the cart: an existing line with the same
// (id, format) key gets its quantity incremented by one, otherwise
// the item is appended with quantity 1.
func (c *Cart) Add(item LineItem) error {
	items, err := c.Items()
	if err != nil {
		return err
	}
	key := item.Key()
	merged := false
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = 1
		items = append(items, item)
	}
	return c.store.Set(localstore.KeyCart, items)
}

// Remove drops every line matching key. Removing an absent key is a
// no-op.
func (c *Cart) Remove(key Key) error {
	items, err := c.Items()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.Key() != key {
			kept = append(kept, it)
		}
	}
	return c.store.Set(localstore.KeyCart, kept)
}

// SetQuantity updates the quantity of the line matching key. Values
// below 1 are ignored so that repeated decrement clicks cannot drop a
// line by accident; removal is always explicit.
func (c *Cart) SetQuantity(key Key, n int) error {
	if n < 1 {
		return nil
	}
	items, err := c.Items()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity = n
		}
	}
	return c.store.Set(localstore.KeyCart, items)
}

// Clear empties the cart. Called after a confirmed payment redirect.
func (c *Cart) Clear() error {
	return c.store.Delete(localstore.KeyCart)
}

// Total renders sum(price × quantity) with two decimal places, read
// from the stored snapshots. Lines whose snapshot price cannot be
// parsed contribute zero.
func Total(items []LineItem) string {
	var total float64
	for _, it := range items {
		if price, ok := it.Price.Float(); ok {
			total += price * float64(it.Quantity)
		}
	}
	return strconv.FormatFloat(total, 'f', 2, 64)
}
