package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
)

// PostgresCatalog reads products from the products table, ordered by id.
type PostgresCatalog struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{
		db:   pool,
		pool: pool,
	}
}

func NewPostgresCatalogWithTx(tx pgx.Tx) *PostgresCatalog {
	return &PostgresCatalog{
		db:   tx,
		pool: nil, // use provided transaction instead
	}
}

const selectProductsSQL = `
SELECT id, title, description, price::text, category, COALESCE(subcategory, ''),
       rating, in_stock, COALESCE(brand, ''), COALESCE(color, ''), COALESCE(size, ''),
       images, specifications
FROM products`

func (c *PostgresCatalog) GetAll(ctx context.Context) ([]domain.Product, error) {
	products, err := c.query(ctx, selectProductsSQL+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("c.query: %w", err)
	}
	return products, nil
}

func (c *PostgresCatalog) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	row := c.db.QueryRow(ctx, selectProductsSQL+` WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product[%d]: %w", id, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return p, nil
}

func (c *PostgresCatalog) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := c.query(ctx, selectProductsSQL+` WHERE category = $1 ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("c.query: %w", err)
	}
	return products, nil
}

func (c *PostgresCatalog) Search(ctx context.Context, query string) ([]domain.Product, error) {
	pattern := "%" + escapeLike(query) + "%"

	products, err := c.query(ctx, selectProductsSQL+`
WHERE title ILIKE $1 OR description ILIKE $1 OR category ILIKE $1
ORDER BY id`, pattern)
	if err != nil {
		return nil, fmt.Errorf("c.query: %w", err)
	}
	return products, nil
}

const upsertProductSQL = `
INSERT INTO products (id, title, description, price, category, subcategory, rating, in_stock,
                      brand, color, size, images, specifications)
VALUES ($1, $2, $3, $4::numeric, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12, $13)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title, description = EXCLUDED.description, price = EXCLUDED.price,
    category = EXCLUDED.category, subcategory = EXCLUDED.subcategory, rating = EXCLUDED.rating,
    in_stock = EXCLUDED.in_stock, brand = EXCLUDED.brand, color = EXCLUDED.color, size = EXCLUDED.size,
    images = EXCLUDED.images, specifications = EXCLUDED.specifications`

// Seed upserts products in a single transaction and returns how many were written.
func (c *PostgresCatalog) Seed(ctx context.Context, products []domain.Product) (int, error) {
	return withTx(ctx, c.pool, c.db, func(db dbtx) (int, error) {
		for _, p := range products {
			p = p.Normalize()

			images, err := json.Marshal(nonNilStrings(p.Images))
			if err != nil {
				return 0, fmt.Errorf("json.Marshal images: %w", err)
			}
			specs, err := json.Marshal(nonNilMap(p.Specifications))
			if err != nil {
				return 0, fmt.Errorf("json.Marshal specifications: %w", err)
			}

			_, err = db.Exec(ctx, upsertProductSQL,
				p.ID, p.Title, p.Description, p.Price.String(), p.Category, p.Subcategory,
				p.Rating, p.InStock, p.Brand, p.Color, p.Size, images, specs)
			if err != nil {
				return 0, fmt.Errorf("db.Exec product[%d]: %w", p.ID, err)
			}
		}
		return len(products), nil
	})
}

func (c *PostgresCatalog) query(ctx context.Context, sql string, args ...any) ([]domain.Product, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		price  string
		images []byte
		specs  []byte
	)

	err := row.Scan(&p.ID, &p.Title, &p.Description, &price, &p.Category, &p.Subcategory,
		&p.Rating, &p.InStock, &p.Brand, &p.Color, &p.Size, &images, &specs)
	if err != nil {
		return domain.Product{}, err
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", price, err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return domain.Product{}, fmt.Errorf("json.Unmarshal images: %w", err)
	}
	if err := json.Unmarshal(specs, &p.Specifications); err != nil {
		return domain.Product{}, fmt.Errorf("json.Unmarshal specifications: %w", err)
	}
	if len(p.Images) == 0 {
		p.Images = nil
	}
	if len(p.Specifications) == 0 {
		p.Specifications = nil
	}

	// rows written outside Seed may carry attributes only in specifications
	return p.Normalize(), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
