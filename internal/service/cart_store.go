package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/nikolayk812/storefront-core/internal/port"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
)

// CartStorageKey is the key the cart snapshot is persisted under.
const CartStorageKey = "cartItems"

const defaultWriteTimeout = 5 * time.Second

var (
	defaultTaxRate  = decimal.RequireFromString("0.18")
	defaultCurrency = currency.MustParseISO("INR")
)

// CartStore owns the shopper's cart. All mutations go through its methods and
// are serialized, so each one observes the result of the previous one.
type CartStore struct {
	mu   sync.Mutex
	cart domain.Cart

	notifier  port.Notifier
	persister *persister
	logger    *logrus.Logger

	key          string
	unit         currency.Unit
	taxRate      decimal.Decimal
	now          func() time.Time
	writeTimeout time.Duration
}

type CartStoreOption func(*CartStore)

func WithLogger(logger *logrus.Logger) CartStoreOption {
	return func(s *CartStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithStorageKey(key string) CartStoreOption {
	return func(s *CartStore) {
		if key != "" {
			s.key = key
		}
	}
}

func WithCurrency(unit currency.Unit) CartStoreOption {
	return func(s *CartStore) {
		s.unit = unit
	}
}

func WithTaxRate(rate decimal.Decimal) CartStoreOption {
	return func(s *CartStore) {
		s.taxRate = rate
	}
}

func WithClock(now func() time.Time) CartStoreOption {
	return func(s *CartStore) {
		if now != nil {
			s.now = now
		}
	}
}

func WithWriteTimeout(timeout time.Duration) CartStoreOption {
	return func(s *CartStore) {
		if timeout > 0 {
			s.writeTimeout = timeout
		}
	}
}

// NewCartStore rehydrates the cart from store. A missing or unreadable snapshot
// starts an empty cart. Close must be called to stop background persistence.
func NewCartStore(ctx context.Context, store port.KeyValueStore, notifier port.Notifier, opts ...CartStoreOption) (*CartStore, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	s := &CartStore{
		notifier:     notifier,
		logger:       discardLogger(),
		key:          CartStorageKey,
		unit:         defaultCurrency,
		taxRate:      defaultTaxRate,
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cart = s.rehydrate(ctx, store)
	s.persister = newPersister(ctx, store, s.key, s.writeTimeout, s.logger)

	return s, nil
}

func (s *CartStore) rehydrate(ctx context.Context, store port.KeyValueStore) domain.Cart {
	log := s.logger.WithField("key", s.key)

	data, err := store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			log.Debug("no persisted cart, starting empty")
		} else {
			log.WithError(err).Warn("failed to read persisted cart, starting empty")
		}
		return domain.Cart{}
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.WithError(err).Warn("persisted cart is corrupt, starting empty")
		return domain.Cart{}
	}

	cart := domain.Cart{Items: items}.Sanitize()
	log.WithField("items", cart.Len()).Info("cart rehydrated")
	return cart
}

// AddItem adds quantity units of p. A quantity below 1 adds a single unit.
func (s *CartStore) AddItem(ctx context.Context, p domain.Product, quantity int) domain.Cart {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, domain.Transition) {
		return c.Add(p, quantity)
	})
}

// UpdateQuantity sets the quantity of an item; zero or below removes it.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) domain.Cart {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, domain.Transition) {
		return c.SetQuantity(productID, quantity)
	})
}

func (s *CartStore) RemoveItem(ctx context.Context, productID int64) domain.Cart {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, domain.Transition) {
		return c.Remove(productID)
	})
}

// ClearCart empties the cart and erases the persisted snapshot.
func (s *CartStore) ClearCart(ctx context.Context) domain.Cart {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, domain.Transition) {
		return c.Clear()
	})
}

func (s *CartStore) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

func (s *CartStore) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Summary(s.unit, s.taxRate)
}

// Close writes any pending snapshot and stops background persistence.
func (s *CartStore) Close(ctx context.Context) error {
	if err := s.persister.close(ctx); err != nil {
		return fmt.Errorf("persister.close: %w", err)
	}
	return nil
}

// mutate applies the pure transition, then notifies, then schedules persistence.
func (s *CartStore) mutate(ctx context.Context, fn func(domain.Cart) (domain.Cart, domain.Transition)) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, transition := fn(s.cart)
	if transition.Kind == domain.EventNone {
		return s.cart.Clone()
	}
	s.cart = next

	if event, ok := domain.NewCartEvent(transition, s.now()); ok {
		s.notifier.Notify(ctx, event)
	}

	s.schedulePersist(transition.Kind)

	return s.cart.Clone()
}

func (s *CartStore) schedulePersist(kind domain.EventKind) {
	if kind == domain.EventCleared {
		s.persister.schedule(write{delete: true})
		return
	}

	items := s.cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode cart, snapshot not persisted")
		return
	}
	s.persister.schedule(write{value: data})
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
