package domain_test

import (
	"testing"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCriteria_Validate(t *testing.T) {
	tests := []struct {
		name      string
		criteria  domain.FilterCriteria
		wantError string
	}{
		{
			name:     "default criteria: ok",
			criteria: domain.DefaultCriteria(),
		},
		{
			name:     "zero criteria: ok",
			criteria: domain.FilterCriteria{},
		},
		{
			name: "equal price bounds: ok",
			criteria: domain.FilterCriteria{
				MinPrice: decimalPtr("100"),
				MaxPrice: decimalPtr("100"),
			},
		},
		{
			name:      "negative min price: error",
			criteria:  domain.FilterCriteria{MinPrice: decimalPtr("-1")},
			wantError: "invalid filter criteria: minPrice[-1] is negative",
		},
		{
			name:      "negative max price: error",
			criteria:  domain.FilterCriteria{MaxPrice: decimalPtr("-0.5")},
			wantError: "invalid filter criteria: maxPrice[-0.5] is negative",
		},
		{
			name: "inverted price bounds: error",
			criteria: domain.FilterCriteria{
				MinPrice: decimalPtr("200"),
				MaxPrice: decimalPtr("100"),
			},
			wantError: "invalid filter criteria: minPrice[200] is greater than maxPrice[100]",
		},
		{
			name:      "rating above 5: error",
			criteria:  domain.FilterCriteria{MinRating: floatPtr(6)},
			wantError: "invalid filter criteria: minRating[6] is out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				assert.ErrorIs(t, err, domain.ErrInvalidCriteria)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFilterCriteria_ToggleMinRating(t *testing.T) {
	c := domain.DefaultCriteria()

	c = c.ToggleMinRating(4)
	require.NotNil(t, c.MinRating)
	assert.Equal(t, 4.0, *c.MinRating)

	c = c.ToggleMinRating(3)
	require.NotNil(t, c.MinRating)
	assert.Equal(t, 3.0, *c.MinRating)

	c = c.ToggleMinRating(3)
	assert.Nil(t, c.MinRating)
}

func TestFilterCriteria_ToggleSets(t *testing.T) {
	c := domain.DefaultCriteria().
		ToggleBrand("Acme").
		ToggleBrand("Zeta").
		ToggleColor("Black").
		ToggleSize("M").
		ToggleBrand("Acme")

	assert.Equal(t, []string{"Zeta"}, c.Brands)
	assert.Equal(t, []string{"Black"}, c.Colors)
	assert.Equal(t, []string{"M"}, c.Sizes)

	c = c.ToggleColor("Black").ToggleSize("M")
	assert.Empty(t, c.Colors)
	assert.Empty(t, c.Sizes)
}

func TestFilterCriteria_TogglesDoNotShareState(t *testing.T) {
	base := domain.DefaultCriteria().ToggleBrand("Acme").ToggleBrand("Zeta")
	next := base.ToggleBrand("Acme")

	assert.Equal(t, []string{"Acme", "Zeta"}, base.Brands)
	assert.Equal(t, []string{"Zeta"}, next.Brands)
}

func TestFilterCriteria_WithCategoryAndStock(t *testing.T) {
	c := domain.DefaultCriteria()
	assert.False(t, c.HasCategory())

	c = c.WithCategory("Fashion", "Shoes").ToggleInStockOnly()
	assert.True(t, c.HasCategory())
	assert.Equal(t, "Shoes", c.Subcategory)
	assert.True(t, c.InStockOnly)

	c = c.ToggleInStockOnly().WithPriceRange(decimalPtr("10"), nil)
	assert.False(t, c.InStockOnly)
	require.NotNil(t, c.MinPrice)
	assert.Nil(t, c.MaxPrice)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func floatPtr(f float64) *float64 {
	return &f
}
