package domain

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Keys of the legacy specifications map that carry filterable attributes.
const (
	SpecBrand = "Brand"
	SpecColor = "Color"
	SpecSizes = "Available Sizes"
)

type Product struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Price          decimal.Decimal   `json:"price"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory,omitempty"`
	Rating         float64           `json:"rating"`
	InStock        bool              `json:"inStock"`
	Brand          string            `json:"brand,omitempty"`
	Color          string            `json:"color,omitempty"`
	Size           string            `json:"size,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// Normalize fills the flat brand, color and size fields from the
// specifications map when they are empty. Filtering only reads the flat fields.
func (p Product) Normalize() Product {
	if p.Brand == "" {
		p.Brand = strings.TrimSpace(p.Specifications[SpecBrand])
	}
	if p.Color == "" {
		p.Color = strings.TrimSpace(p.Specifications[SpecColor])
	}
	if p.Size == "" {
		p.Size = strings.TrimSpace(p.Specifications[SpecSizes])
	}
	return p
}

// SizeTokens splits the comma separated size field into trimmed, non-empty tokens.
func (p Product) SizeTokens() []string {
	if strings.TrimSpace(p.Size) == "" {
		return nil
	}

	var tokens []string
	for _, s := range strings.Split(p.Size, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Clone returns a deep copy, so a snapshot never shares slices or maps with the catalog.
func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	p.Specifications = maps.Clone(p.Specifications)
	return p
}
