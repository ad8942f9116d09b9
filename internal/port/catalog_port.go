package port

import (
	"context"

	"github.com/nikolayk812/storefront-core/internal/domain"
)

// CatalogSource is a read-only product catalog.
type CatalogSource interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}
