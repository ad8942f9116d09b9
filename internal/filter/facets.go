package filter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Brands returns the distinct non-empty brands of the catalog in collation order.
func Brands(catalog []domain.Product) []string {
	return distinctSorted(catalog, func(p domain.Product) []string {
		return []string{p.Brand}
	}, newCollator().CompareString)
}

// Colors returns the distinct non-empty colors of the catalog in collation order.
func Colors(catalog []domain.Product) []string {
	return distinctSorted(catalog, func(p domain.Product) []string {
		return []string{p.Color}
	}, newCollator().CompareString)
}

// Sizes returns the distinct size tokens of the catalog.
// Tokens starting with an integer come first, ordered by that integer;
// the rest follow in collation order.
func Sizes(catalog []domain.Product) []string {
	return distinctSorted(catalog, domain.Product.SizeTokens, sizeComparator(newCollator()))
}

// CompareSizes orders size tokens numerically when both start with an integer.
func CompareSizes(a, b string) int {
	return sizeComparator(newCollator())(a, b)
}

func sizeComparator(col *collate.Collator) func(a, b string) int {
	return func(a, b string) int {
		return compareSizes(col, a, b)
	}
}

func compareSizes(col *collate.Collator, a, b string) int {
	an, aNumeric := leadingInt(a)
	bn, bNumeric := leadingInt(b)

	switch {
	case aNumeric && bNumeric:
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	case aNumeric:
		return -1
	case bNumeric:
		return 1
	}

	return col.CompareString(a, b)
}

// PriceRange returns the lowest and highest price. ok is false for an empty catalog.
func PriceRange(catalog []domain.Product) (minPrice, maxPrice decimal.Decimal, ok bool) {
	if len(catalog) == 0 {
		return decimal.Zero, decimal.Zero, false
	}

	minPrice, maxPrice = catalog[0].Price, catalog[0].Price
	for _, p := range catalog[1:] {
		if p.Price.LessThan(minPrice) {
			minPrice = p.Price
		}
		if p.Price.GreaterThan(maxPrice) {
			maxPrice = p.Price
		}
	}
	return minPrice, maxPrice, true
}

func Availability(catalog []domain.Product) (inStock, outOfStock int) {
	for _, p := range catalog {
		if p.InStock {
			inStock++
		} else {
			outOfStock++
		}
	}
	return inStock, outOfStock
}

func distinctSorted(catalog []domain.Product, values func(domain.Product) []string, cmp func(a, b string) int) []string {
	seen := make(map[string]struct{})
	result := []string{}

	for _, p := range catalog {
		for _, v := range values(p) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	slices.SortStableFunc(result, cmp)
	return result
}

// collate.Collator is not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// leadingInt parses the integer prefix of s, the way a browser parseInt does.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
