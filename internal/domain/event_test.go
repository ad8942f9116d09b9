package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartEvent(t *testing.T) {
	mug := domain.CartItem{Product: domain.Product{ID: 7, Title: "Mug"}, Quantity: 3}

	tests := []struct {
		name        string
		transition  domain.Transition
		wantOK      bool
		wantMessage string
	}{
		{name: "no-op: no event", transition: domain.Transition{Kind: domain.EventNone}},
		{
			name:        "added",
			transition:  domain.Transition{Kind: domain.EventAdded, Item: mug},
			wantOK:      true,
			wantMessage: "Mug added to cart",
		},
		{
			name:        "updated",
			transition:  domain.Transition{Kind: domain.EventUpdated, Item: mug},
			wantOK:      true,
			wantMessage: "Updated Mug quantity in cart",
		},
		{
			name:        "removed",
			transition:  domain.Transition{Kind: domain.EventRemoved, Item: mug},
			wantOK:      true,
			wantMessage: "Mug removed from cart",
		},
		{
			name:        "cleared",
			transition:  domain.Transition{Kind: domain.EventCleared},
			wantOK:      true,
			wantMessage: "Order placed successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := domain.NewCartEvent(tt.transition, time.Now())
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}

			assert.Equal(t, tt.transition.Kind, event.Kind)
			assert.Equal(t, tt.wantMessage, event.Message)
			assert.NotEqual(t, uuid.Nil, event.ID)
		})
	}
}
