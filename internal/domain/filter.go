package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// AllCategories is the category value that disables category filtering.
const AllCategories = "All"

const MaxRating = 5.0

// FilterCriteria is the complete input of the filter engine.
// Zero values disable their stage: empty strings, nil bounds, empty sets and false.
type FilterCriteria struct {
	Category    string
	Subcategory string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinRating   *float64
	Brands      []string
	Colors      []string
	Sizes       []string
	InStockOnly bool
}

// DefaultCriteria is the state of a cleared filter sidebar.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: AllCategories}
}

func (c FilterCriteria) Validate() error {
	if c.MinPrice != nil && c.MinPrice.IsNegative() {
		return fmt.Errorf("%w: minPrice[%s] is negative", ErrInvalidCriteria, c.MinPrice)
	}
	if c.MaxPrice != nil && c.MaxPrice.IsNegative() {
		return fmt.Errorf("%w: maxPrice[%s] is negative", ErrInvalidCriteria, c.MaxPrice)
	}
	if c.MinPrice != nil && c.MaxPrice != nil && c.MinPrice.GreaterThan(*c.MaxPrice) {
		return fmt.Errorf("%w: minPrice[%s] is greater than maxPrice[%s]", ErrInvalidCriteria, c.MinPrice, c.MaxPrice)
	}
	if c.MinRating != nil && (*c.MinRating < 0 || *c.MinRating > MaxRating) {
		return fmt.Errorf("%w: minRating[%v] is out of range", ErrInvalidCriteria, *c.MinRating)
	}
	return nil
}

func (c FilterCriteria) HasCategory() bool {
	return c.Category != "" && c.Category != AllCategories
}

func (c FilterCriteria) WithCategory(category, subcategory string) FilterCriteria {
	next := c.clone()
	next.Category = category
	next.Subcategory = subcategory
	return next
}

func (c FilterCriteria) WithPriceRange(minPrice, maxPrice *decimal.Decimal) FilterCriteria {
	next := c.clone()
	next.MinPrice = copyDecimal(minPrice)
	next.MaxPrice = copyDecimal(maxPrice)
	return next
}

// ToggleMinRating selects rating as the threshold, or clears it when it is already selected.
func (c FilterCriteria) ToggleMinRating(rating float64) FilterCriteria {
	next := c.clone()
	if c.MinRating != nil && *c.MinRating == rating {
		next.MinRating = nil
		return next
	}
	next.MinRating = &rating
	return next
}

func (c FilterCriteria) ToggleBrand(brand string) FilterCriteria {
	next := c.clone()
	next.Brands = toggle(next.Brands, brand)
	return next
}

func (c FilterCriteria) ToggleColor(color string) FilterCriteria {
	next := c.clone()
	next.Colors = toggle(next.Colors, color)
	return next
}

func (c FilterCriteria) ToggleSize(size string) FilterCriteria {
	next := c.clone()
	next.Sizes = toggle(next.Sizes, size)
	return next
}

func (c FilterCriteria) ToggleInStockOnly() FilterCriteria {
	next := c.clone()
	next.InStockOnly = !c.InStockOnly
	return next
}

func (c FilterCriteria) clone() FilterCriteria {
	next := c
	next.MinPrice = copyDecimal(c.MinPrice)
	next.MaxPrice = copyDecimal(c.MaxPrice)
	if c.MinRating != nil {
		r := *c.MinRating
		next.MinRating = &r
	}
	next.Brands = slices.Clone(c.Brands)
	next.Colors = slices.Clone(c.Colors)
	next.Sizes = slices.Clone(c.Sizes)
	return next
}

func toggle(values []string, value string) []string {
	if i := slices.Index(values, value); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	return append(values, value)
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
