package domain

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Cart is an ordered list of items; order is the order in which products were first added.
// Methods never modify the receiver, they return the next Cart value.
type Cart struct {
	Items []CartItem
}

// CartItem is a snapshot of a product taken when it was added, plus the quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Transition describes the effect of a single cart mutation.
type Transition struct {
	Kind     EventKind
	Item     CartItem
	Previous int
}

func (c Cart) Len() int {
	return len(c.Items)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Find(productID int64) (CartItem, bool) {
	i := c.index(productID)
	if i < 0 {
		return CartItem{}, false
	}
	return c.Items[i], true
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total = addQuantity(total, item.Quantity)
	}
	return total
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}

	items := make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return Cart{Items: items}
}

// Add increments the quantity of an existing item in place or appends a new one.
// A quantity below 1 counts as 1.
func (c Cart) Add(p Product, quantity int) (Cart, Transition) {
	if quantity <= 0 {
		quantity = 1
	}

	next := c.Clone()
	if i := next.index(p.ID); i >= 0 {
		prev := next.Items[i].Quantity
		next.Items[i].Quantity = addQuantity(prev, quantity)
		return next, Transition{Kind: EventUpdated, Item: next.Items[i], Previous: prev}
	}

	item := CartItem{Product: p.Clone(), Quantity: quantity}
	next.Items = append(next.Items, item)
	return next, Transition{Kind: EventAdded, Item: item}
}

// SetQuantity sets the quantity of an existing item. A quantity of zero or less removes it.
func (c Cart) SetQuantity(productID int64, quantity int) (Cart, Transition) {
	if quantity <= 0 {
		return c.Remove(productID)
	}

	i := c.index(productID)
	if i < 0 {
		return c.Clone(), Transition{Kind: EventNone}
	}

	next := c.Clone()
	prev := next.Items[i].Quantity
	next.Items[i].Quantity = quantity
	return next, Transition{Kind: EventUpdated, Item: next.Items[i], Previous: prev}
}

// Remove deletes the item for productID. Removing an absent item is a no-op.
func (c Cart) Remove(productID int64) (Cart, Transition) {
	i := c.index(productID)
	if i < 0 {
		return c.Clone(), Transition{Kind: EventNone}
	}

	next := c.Clone()
	removed := next.Items[i]
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	return next, Transition{Kind: EventRemoved, Item: removed, Previous: removed.Quantity}
}

func (c Cart) Clear() (Cart, Transition) {
	return Cart{}, Transition{Kind: EventCleared, Previous: c.TotalQuantity()}
}

// Sanitize restores the cart invariants on data that did not come from Cart methods:
// items with quantity below 1 are dropped and duplicate ids are merged into
// the first occurrence.
func (c Cart) Sanitize() Cart {
	var next Cart
	for _, item := range c.Items {
		if item.Quantity < 1 {
			continue
		}
		if i := next.index(item.ID); i >= 0 {
			next.Items[i].Quantity = addQuantity(next.Items[i].Quantity, item.Quantity)
			continue
		}
		next.Items = append(next.Items, CartItem{Product: item.Product.Clone(), Quantity: item.Quantity})
	}
	return next
}

func (c Cart) Summary(unit currency.Unit, taxRate decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	// tax is rounded to whole currency units
	tax := subtotal.Mul(taxRate).Round(0)

	return Summary{
		ItemCount: c.TotalQuantity(),
		Subtotal:  NewMoney(subtotal, unit),
		Tax:       NewMoney(tax, unit),
		Total:     NewMoney(subtotal.Add(tax), unit),
	}
}

// addQuantity sums two quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (c Cart) index(productID int64) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

type Summary struct {
	ItemCount int
	Subtotal  Money
	Tax       Money
	Total     Money
}
