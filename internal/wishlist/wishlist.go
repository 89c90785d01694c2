// Package wishlist maintains the locally persisted wishlist. Unlike
// the cart it has no quantities: membership is toggled per
// (product id, format) key.
package wishlist

import (
	"errors"

	"bookshop/internal/cart"
	"bookshop/internal/localstore"
	"bookshop/internal/product"
)

// ErrNotFound is returned when a key is not on the wishlist.
var ErrNotFound = errors.New("wishlist item not found")

// Item is one wishlist entry; name, price and image are add-time
// snapshots, same as cart lines.
type Item struct {
	ID     int            `json:"id"`
	Name   string         `json:"name"`
	Price  product.Price  `json:"price"`
	Format product.Format `json:"format,omitempty"`
	Image  string         `json:"image,omitempty"`
}

// Key returns the deduplication key of the item.
func (it Item) Key() cart.Key {
	return cart.Key{ID: it.ID, Format: it.Format}
}

// ItemFor builds a wishlist snapshot of p.
func ItemFor(p product.Product, format product.Format) Item {
	return Item{
		ID:     p.ID,
		Name:   p.DisplayName(),
		Price:  p.Price,
		Format: format,
		Image:  p.CoverImage(),
	}
}

// Wishlist reads and writes the persisted item list.
type Wishlist struct {
	store *localstore.Store
}

func New(store *localstore.Store) *Wishlist {
	return &Wishlist{store: store}
}

// Items returns the persisted items in insertion order.
func (w *Wishlist) Items() ([]Item, error) {
	var items []Item
	if err := w.store.Get(localstore.KeyWishlist, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Toggle flips membership of item: present entries with the same key
// are filtered out, absent ones are appended. Returns whether the
// item is on the list afterwards. Toggling twice restores the
// original list.
func (w *Wishlist) Toggle(item Item) (bool, error) {
	items, err := w.Items()
	if err != nil {
		return false, err
	}
	key := item.Key()
	kept := make([]Item, 0, len(items)+1)
	removed := false
	for _, it := range items {
		if it.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		kept = append(kept, item)
	}
	if err := w.store.Set(localstore.KeyWishlist, kept); err != nil {
		return false, err
	}
	return !removed, nil
}

// Contains reports whether a key is on the wishlist.
func (w *Wishlist) Contains(key cart.Key) (bool, error) {
	items, err := w.Items()
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

// Remove drops every item matching key; absent keys are a no-op.
func (w *Wishlist) Remove(key cart.Key) error {
	items, err := w.Items()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.Key() != key {
			kept = append(kept, it)
		}
	}
	return w.store.Set(localstore.KeyWishlist, kept)
}

// MoveToCart adds the wishlist item matching key to the cart (merging
// by key like any other add) and removes it from the wishlist.
func (w *Wishlist) MoveToCart(key cart.Key, c *cart.Cart) error {
	items, err := w.Items()
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.Key() != key {
			continue
		}
		line := cart.LineItem{
			ID:     it.ID,
			Name:   it.Name,
			Price:  it.Price,
			Format: it.Format,
			Image:  it.Image,
		}
		if err := c.Add(line); err != nil {
			return err
		}
		return w.Remove(key)
	}
	return ErrNotFound
}
