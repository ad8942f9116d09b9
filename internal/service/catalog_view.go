package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/nikolayk812/storefront-core/internal/filter"
	"github.com/nikolayk812/storefront-core/internal/port"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned for a listing whose response arrived after a newer listing was requested.
var ErrSuperseded = errors.New("request superseded by a newer one")

// CatalogView serves product listings for a single browsing view.
// Listings are last-request-wins: Browse and Search share one generation counter.
type CatalogView struct {
	source     port.CatalogSource
	logger     *logrus.Logger
	generation atomic.Uint64
}

// Facets are the values a filter sidebar offers for the current catalog.
type Facets struct {
	Brands        []string
	Colors        []string
	Sizes         []string
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	HasPriceRange bool
	InStock       int
	OutOfStock    int
}

func NewCatalogView(source port.CatalogSource, logger *logrus.Logger) (*CatalogView, error) {
	if source == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &CatalogView{source: source, logger: logger}, nil
}

// Browse returns the catalog narrowed by criteria.
func (v *CatalogView) Browse(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Product, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	ticket := v.generation.Add(1)

	var (
		products []domain.Product
		err      error
	)
	if criteria.HasCategory() {
		products, err = v.source.GetByCategory(ctx, criteria.Category)
	} else {
		products, err = v.source.GetAll(ctx)
	}
	if err != nil {
		// a superseded request reports ErrSuperseded even when it failed
		if staleErr := v.current(ticket); staleErr != nil {
			return nil, staleErr
		}
		return nil, fmt.Errorf("source.Get: %w", err)
	}

	if err := v.current(ticket); err != nil {
		return nil, err
	}

	result := filter.Apply(products, criteria)
	v.logger.WithFields(logrus.Fields{
		"category": criteria.Category,
		"loaded":   len(products),
		"matched":  len(result),
	}).Debug("catalog browsed")

	return result, nil
}

// Search returns products whose title, description or category contain query.
func (v *CatalogView) Search(ctx context.Context, query string) ([]domain.Product, error) {
	ticket := v.generation.Add(1)

	products, err := v.source.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		if staleErr := v.current(ticket); staleErr != nil {
			return nil, staleErr
		}
		return nil, fmt.Errorf("source.Search: %w", err)
	}

	if err := v.current(ticket); err != nil {
		return nil, err
	}

	return products, nil
}

// Product returns a single product. The error wraps domain.ErrProductNotFound when it does not exist.
func (v *CatalogView) Product(ctx context.Context, id int64) (domain.Product, error) {
	p, err := v.source.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("source.GetByID: %w", err)
	}
	return p, nil
}

func (v *CatalogView) Facets(ctx context.Context) (Facets, error) {
	products, err := v.source.GetAll(ctx)
	if err != nil {
		return Facets{}, fmt.Errorf("source.GetAll: %w", err)
	}

	facets := Facets{
		Brands: filter.Brands(products),
		Colors: filter.Colors(products),
		Sizes:  filter.Sizes(products),
	}
	facets.MinPrice, facets.MaxPrice, facets.HasPriceRange = filter.PriceRange(products)
	facets.InStock, facets.OutOfStock = filter.Availability(products)

	return facets, nil
}

func (v *CatalogView) current(ticket uint64) error {
	if latest := v.generation.Load(); latest != ticket {
		v.logger.WithFields(logrus.Fields{
			"ticket": ticket,
			"latest": latest,
		}).Debug("stale listing discarded")
		return ErrSuperseded
	}
	return nil
}
