// Package testutil holds shared fixtures for storefront tests.
package testutil

import (
	"testing"
	"time"

	"bookshop/internal/localstore"
	"bookshop/internal/product"
)

// NewStore returns a local store rooted in a per-test temp directory.
func NewStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	return store
}

// Products is a small fixture catalog covering both formats, string
// and numeric prices, and one unparseable price.
func Products() []product.Product {
	return []product.Product{
		{
			ID:         1,
			Title:      "Solaris",
			Author:     "Stanisław Lem",
			Publisher:  "Wydawnictwo Literackie",
			Genre:      "sci-fi",
			Price:      "29.99",
			Format:     product.FormatBoth,
			Popularity: 87,
			CreatedAt:  time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         2,
			Title:      "Lalka",
			Author:     "Bolesław Prus",
			Publisher:  "PIW",
			Genre:      "classic",
			Price:      "45.50",
			Format:     product.FormatPhysical,
			Popularity: 42,
			CreatedAt:  time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         3,
			Title:      "Wiedźmin: Ostatnie życzenie",
			Author:     "Andrzej Sapkowski",
			Publisher:  "superNOWA",
			Genre:      "fantasy",
			Price:      "19.90",
			Format:     product.FormatEbook,
			Popularity: 95,
			CreatedAt:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        4,
			Name:      "Pan Tadeusz",
			Author:    "Adam Mickiewicz",
			Publisher: "PIW",
			Genre:     "classic",
			Price:     "n/a",
			Format:    product.FormatPaperback,
		},
	}
}
