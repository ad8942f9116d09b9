// Package filter narrows a product catalog by a FilterCriteria and derives the
// facet values a filter sidebar offers.
package filter

import (
	"strings"

	"github.com/nikolayk812/storefront-core/internal/domain"
)

type stage func(p domain.Product) bool

// Apply returns the products matching every stage of c, in catalog order.
// The catalog is never modified and the result never aliases it.
func Apply(catalog []domain.Product, c domain.FilterCriteria) []domain.Product {
	stages := stages(c)

	result := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if matchesAll(p, stages) {
			result = append(result, p.Clone())
		}
	}
	return result
}

// Match reports whether p passes every stage of c.
func Match(p domain.Product, c domain.FilterCriteria) bool {
	return matchesAll(p, stages(c))
}

func matchesAll(p domain.Product, stages []stage) bool {
	for _, s := range stages {
		if !s(p) {
			return false
		}
	}
	return true
}

// stages builds only the stages that c enables, in evaluation order.
func stages(c domain.FilterCriteria) []stage {
	var result []stage

	if c.HasCategory() {
		category := c.Category
		result = append(result, func(p domain.Product) bool {
			return p.Category == category
		})
	}
	// subcategory applies on its own, also when every category is selected
	if c.Subcategory != "" {
		subcategory := c.Subcategory
		result = append(result, func(p domain.Product) bool {
			return p.Subcategory == subcategory
		})
	}

	if c.MinPrice != nil {
		minPrice := *c.MinPrice
		result = append(result, func(p domain.Product) bool {
			return p.Price.GreaterThanOrEqual(minPrice)
		})
	}
	if c.MaxPrice != nil {
		maxPrice := *c.MaxPrice
		result = append(result, func(p domain.Product) bool {
			return p.Price.LessThanOrEqual(maxPrice)
		})
	}

	if c.MinRating != nil {
		minRating := *c.MinRating
		result = append(result, func(p domain.Product) bool {
			return p.Rating >= minRating
		})
	}

	if len(c.Brands) > 0 {
		brands := make(map[string]struct{}, len(c.Brands))
		for _, b := range c.Brands {
			brands[b] = struct{}{}
		}
		result = append(result, func(p domain.Product) bool {
			if p.Brand == "" {
				return false
			}
			_, ok := brands[p.Brand]
			return ok
		})
	}

	if colors := lowerAll(c.Colors); len(colors) > 0 {
		result = append(result, func(p domain.Product) bool {
			if p.Color == "" {
				return false
			}
			color := strings.ToLower(p.Color)
			for _, want := range colors {
				if strings.Contains(color, want) {
					return true
				}
			}
			return false
		})
	}

	if sizes := lowerAll(c.Sizes); len(sizes) > 0 {
		result = append(result, func(p domain.Product) bool {
			for _, token := range p.SizeTokens() {
				token = strings.ToLower(token)
				for _, want := range sizes {
					if token == want {
						return true
					}
				}
			}
			return false
		})
	}

	if c.InStockOnly {
		result = append(result, func(p domain.Product) bool {
			return p.InStock
		})
	}

	return result
}

func lowerAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
