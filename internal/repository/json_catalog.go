package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nikolayk812/storefront-core/internal/domain"
)

//go:embed data/products.json
var sampleCatalog []byte

const (
	DefaultListLatency = 300 * time.Millisecond
	DefaultItemLatency = 200 * time.Millisecond
)

// JSONCatalog serves a fixed product list decoded from JSON, with simulated latency.
type JSONCatalog struct {
	products    []domain.Product
	listLatency time.Duration
	itemLatency time.Duration
}

type JSONCatalogOption func(*JSONCatalog)

// WithLatency sets the simulated latency of list and by-id reads. Zero disables it.
func WithLatency(list, item time.Duration) JSONCatalogOption {
	return func(c *JSONCatalog) {
		c.listLatency = list
		c.itemLatency = item
	}
}

func NewJSONCatalog(data []byte, opts ...JSONCatalogOption) (*JSONCatalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	seen := make(map[int64]struct{}, len(products))
	for i, p := range products {
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("product[%d] is duplicated", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product[%d] price is negative", p.ID)
		}
		seen[p.ID] = struct{}{}
		products[i] = p.Normalize()
	}

	c := &JSONCatalog{
		products:    products,
		listLatency: DefaultListLatency,
		itemLatency: DefaultItemLatency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LoadJSONCatalog reads the catalog from path, or the embedded sample catalog when path is empty.
func LoadJSONCatalog(path string, opts ...JSONCatalogOption) (*JSONCatalog, error) {
	if path == "" {
		return NewJSONCatalog(sampleCatalog, opts...)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	return NewJSONCatalog(data, opts...)
}

func (c *JSONCatalog) GetAll(ctx context.Context) ([]domain.Product, error) {
	if err := sleep(ctx, c.listLatency); err != nil {
		return nil, err
	}
	return c.collect(func(domain.Product) bool { return true }), nil
}

func (c *JSONCatalog) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	if err := sleep(ctx, c.itemLatency); err != nil {
		return domain.Product{}, err
	}

	for _, p := range c.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return domain.Product{}, fmt.Errorf("product[%d]: %w", id, domain.ErrProductNotFound)
}

func (c *JSONCatalog) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if err := sleep(ctx, c.listLatency); err != nil {
		return nil, err
	}
	return c.collect(func(p domain.Product) bool { return p.Category == category }), nil
}

// Search matches query case-insensitively against title, description and category.
func (c *JSONCatalog) Search(ctx context.Context, query string) ([]domain.Product, error) {
	if err := sleep(ctx, c.listLatency); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	return c.collect(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	}), nil
}

func (c *JSONCatalog) collect(keep func(domain.Product) bool) []domain.Product {
	result := []domain.Product{}
	for _, p := range c.products {
		if keep(p) {
			result = append(result, p.Clone())
		}
	}
	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
