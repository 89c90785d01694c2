package product

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNone         SortKey = ""
	SortAlphabetical SortKey = "alphabetical"
	SortPopularity   SortKey = "popularity"
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
	SortDateNewest   SortKey = "date-newest"
	SortDateOldest   SortKey = "date-oldest"
)

// SortKeys lists every supported key, for option menus.
var SortKeys = []SortKey{
	SortAlphabetical,
	SortPopularity,
	SortPriceAsc,
	SortPriceDesc,
	SortDateNewest,
	SortDateOldest,
}

// Filters holds the user-chosen predicates for a product listing.
// A zero field imposes no constraint; non-zero fields are combined
// with logical AND.
type Filters struct {
	Author    string
	Publisher string
	Genre     string
	MinPrice  *float64
	MaxPrice  *float64
}

func (f Filters) match(p Product) bool {
	if f.Author != "" && p.Author != f.Author {
		return false
	}
	if f.Publisher != "" && p.Publisher != f.Publisher {
		return false
	}
	if f.Genre != "" && p.Genre != f.Genre {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price, ok := p.Price.Float()
		if !ok {
			// Unparseable prices never satisfy a price bound.
			return false
		}
		if f.MinPrice != nil && price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && price > *f.MaxPrice {
			return false
		}
	}
	return true
}

// FilterAndSort returns a new slice holding the products that satisfy
// every set filter, ordered by key. SortNone keeps the original fetch
// order; every sort is stable, and products whose price cannot be
// coerced to a number sort after all parseable prices under the price
// keys.
func FilterAndSort(products []Product, filters Filters, key SortKey) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filters.match(p) {
			out = append(out, p)
		}
	}

	switch key {
	case SortAlphabetical:
		c := collate.New(language.Polish)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].DisplayName(), out[j].DisplayName()) < 0
		})
	case SortPopularity:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Popularity > out[j].Popularity
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return lessByPrice(out[i], out[j], true)
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return lessByPrice(out[i], out[j], false)
		})
	case SortDateNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortDateOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out
}

func lessByPrice(a, b Product, asc bool) bool {
	av, aok := a.Price.Float()
	bv, bok := b.Price.Float()
	switch {
	case aok && bok:
		if asc {
			return av < bv
		}
		return av > bv
	case aok:
		return true
	default:
		return false
	}
}

// FilterOptions enumerates the values a listing page can offer for
// each filter field, derived from the fetched product list.
type FilterOptions struct {
	Authors    []string
	Publishers []string
	Genres     []string
	MinPrice   float64
	MaxPrice   float64
	HasPrices  bool
}

// OptionsFor collects the distinct non-empty authors, publishers and
// genres of products, sorted, plus the observed price range over the
// parseable prices.
func OptionsFor(products []Product) FilterOptions {
	var opts FilterOptions
	authors := map[string]bool{}
	publishers := map[string]bool{}
	genres := map[string]bool{}
	for _, p := range products {
		if p.Author != "" {
			authors[p.Author] = true
		}
		if p.Publisher != "" {
			publishers[p.Publisher] = true
		}
		if p.Genre != "" {
			genres[p.Genre] = true
		}
		if price, ok := p.Price.Float(); ok {
			if !opts.HasPrices || price < opts.MinPrice {
				opts.MinPrice = price
			}
			if !opts.HasPrices || price > opts.MaxPrice {
				opts.MaxPrice = price
			}
			opts.HasPrices = true
		}
	}
	opts.Authors = sortedKeys(authors)
	opts.Publishers = sortedKeys(publishers)
	opts.Genres = sortedKeys(genres)
	return opts
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
