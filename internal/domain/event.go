package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventNone    EventKind = ""
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// CartEvent is a human readable description of a cart mutation.
type CartEvent struct {
	ID          uuid.UUID
	Kind        EventKind
	ProductID   int64
	ProductName string
	Quantity    int
	Message     string
	OccurredAt  time.Time
}

// NewCartEvent describes t. It returns false for transitions that changed nothing.
func NewCartEvent(t Transition, at time.Time) (CartEvent, bool) {
	if t.Kind == EventNone {
		return CartEvent{}, false
	}

	event := CartEvent{
		ID:          uuid.Must(uuid.NewV7()),
		Kind:        t.Kind,
		ProductID:   t.Item.ID,
		ProductName: t.Item.Title,
		Quantity:    t.Item.Quantity,
		OccurredAt:  at,
	}

	switch t.Kind {
	case EventAdded:
		event.Message = fmt.Sprintf("%s added to cart", t.Item.Title)
	case EventUpdated:
		event.Message = fmt.Sprintf("Updated %s quantity in cart", t.Item.Title)
	case EventRemoved:
		event.Message = fmt.Sprintf("%s removed from cart", t.Item.Title)
		event.Quantity = 0
	case EventCleared:
		event.Message = "Order placed successfully"
	}

	return event, true
}
