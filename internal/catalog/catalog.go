// Package catalog assembles product listings: it fetches the full
// product list from the backend, scopes it to a format view, applies
// the user's filters and sort, and derives the filter options the
// page can offer. The heavy lifting is the pure filter/sort engine in
// the product package; this service only composes it with the fetch.
package catalog

import (
	"context"
	"fmt"

	"bookshop/internal/product"
)

// View scopes a listing to a distribution channel, mirroring the
// storefront's separate books and e-books pages.
type View string

const (
	ViewAll    View = ""
	ViewBooks  View = "books"
	ViewEbooks View = "ebooks"
)

// API is the slice of the backend client the catalog uses.
type API interface {
	Products(ctx context.Context) ([]product.Product, error)
	Product(ctx context.Context, id int) (*product.Product, error)
	SearchProducts(ctx context.Context, query string) ([]product.Product, error)
}

// Listing is one assembled product listing.
type Listing struct {
	Products []product.Product
	// Options are derived from the view before filtering, so a
	// selected filter does not erase the other choices.
	Options product.FilterOptions
	// Total is the number of products in the view before filtering.
	Total int
}

// Service fetches and composes listings. Each call re-fetches the
// list; there is no cache.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// Browse fetches the catalog, scopes it to view and returns the
// filtered, sorted listing.
func (s *Service) Browse(ctx context.Context, view View, filters product.Filters, key product.SortKey) (*Listing, error) {
	products, err := s.api.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	scoped := scope(products, view)
	return &Listing{
		Products: product.FilterAndSort(scoped, filters, key),
		Options:  product.OptionsFor(scoped),
		Total:    len(scoped),
	}, nil
}

// Get fetches a single product.
func (s *Service) Get(ctx context.Context, id int) (*product.Product, error) {
	return s.api.Product(ctx, id)
}

// Search runs a backend-side search and returns the hits in backend
// order.
func (s *Service) Search(ctx context.Context, query string) ([]product.Product, error) {
	return s.api.SearchProducts(ctx, query)
}

func scope(products []product.Product, view View) []product.Product {
	switch view {
	case ViewBooks:
		return product.Books(products)
	case ViewEbooks:
		return product.Ebooks(products)
	default:
		return products
	}
}
