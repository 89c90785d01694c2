package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Price
	}{
		{name: "numeric string", in: `{"price":"29.99"}`, want: "29.99"},
		{name: "number", in: `{"price":29.99}`, want: "29.99"},
		{name: "integer", in: `{"price":30}`, want: "30"},
		{name: "arbitrary string", in: `{"price":"n/a"}`, want: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p.Price)
		})
	}
}

func TestPriceFloat(t *testing.T) {
	f, ok := Price("29.99").Float()
	assert.True(t, ok)
	assert.InDelta(t, 29.99, f, 0.001)

	_, ok = Price("n/a").Float()
	assert.False(t, ok)

	_, ok = Price("").Float()
	assert.False(t, ok)
}

func TestDisplayNamePrefersTitle(t *testing.T) {
	assert.Equal(t, "Solaris", Product{Title: "Solaris", Name: "legacy"}.DisplayName())
	assert.Equal(t, "legacy", Product{Name: "legacy"}.DisplayName())
}

func TestCoverImagePrecedence(t *testing.T) {
	p := Product{Image: "b", Cover: "c"}
	assert.Equal(t, "b", p.CoverImage())

	p.ImageURL = "a"
	assert.Equal(t, "a", p.CoverImage())

	assert.Equal(t, "c", Product{Cover: "c"}.CoverImage())
	assert.Equal(t, "", Product{}.CoverImage())
}

func TestFormatViews(t *testing.T) {
	in := []Product{
		{ID: 1, Format: FormatPhysical},
		{ID: 2, Format: FormatEbook},
		{ID: 3, Format: FormatBoth},
		{ID: 4, Format: FormatPaperback},
		{ID: 5},
	}

	assert.Equal(t, []int{1, 3, 4}, ids(Books(in)))
	assert.Equal(t, []int{2, 3}, ids(Ebooks(in)))
}
