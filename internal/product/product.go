package product

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Format is the distribution channel of a product.
type Format string

const (
	FormatPhysical  Format = "physical"
	FormatEbook     Format = "ebook"
	FormatBoth      Format = "both"
	FormatPaperback Format = "paperback"
)

// IsPhysical reports whether the product ships as a printed book.
func (f Format) IsPhysical() bool {
	return f == FormatPhysical || f == FormatBoth || f == FormatPaperback
}

// IsEbook reports whether the product is available as an e-book.
func (f Format) IsEbook() bool {
	return f == FormatEbook || f == FormatBoth
}

// Price decodes from either a JSON number or a numeric string; the
// backend is inconsistent about which it sends. The raw text is kept
// as the canonical snapshot value.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

func (p Price) String() string {
	return string(p)
}

// Float returns the numeric value of the price. ok is false when the
// snapshot cannot be coerced to a number.
func (p Price) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(p)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Product is a catalog entry as served by the backend. The backend
// uses title for newer records and name for legacy ones, and any of
// three fields for the cover image; DisplayName and CoverImage apply
// the same precedence everywhere.
type Product struct {
	ID            int       `json:"id"`
	Title         string    `json:"title,omitempty"`
	Name          string    `json:"name,omitempty"`
	Author        string    `json:"author,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	Description   string    `json:"description,omitempty"`
	Price         Price     `json:"price"`
	Image         string    `json:"image,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Cover         string    `json:"cover,omitempty"`
	Format        Format    `json:"format,omitempty"`
	Pages         int       `json:"pages,omitempty"`
	PublishedYear int       `json:"publication_year,omitempty"`
	Popularity    float64   `json:"popularity,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

// DisplayName prefers title over the legacy name field.
func (p Product) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// CoverImage returns the first non-empty image reference.
func (p Product) CoverImage() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	if p.Image != "" {
		return p.Image
	}
	return p.Cover
}

// Books returns the products sold as printed books, in input order.
func Books(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Format.IsPhysical() {
			out = append(out, p)
		}
	}
	return out
}

// Ebooks returns the products sold as e-books, in input order.
func Ebooks(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Format.IsEbook() {
			out = append(out, p)
		}
	}
	return out
}
