package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-core/internal/cli"
	"github.com/nikolayk812/storefront-core/internal/config"
	"github.com/nikolayk812/storefront-core/internal/migrations"
	"github.com/nikolayk812/storefront-core/internal/port"
	"github.com/nikolayk812/storefront-core/internal/repository"
	"github.com/nikolayk812/storefront-core/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const closeTimeout = 5 * time.Second

type app struct {
	cli.App

	closers []func(ctx context.Context) error
	logger  *logrus.Logger
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.WithError(err).Warn("close")
		}
	}
	a.closers = nil
}

func wire(ctx context.Context, cfg config.Config, logger *logrus.Logger, out io.Writer) (_ *app, err error) {
	a := &app{logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		a.Admin = &dbAdmin{pool: pool, catalogPath: cfg.CatalogPath}
	}

	kv, err := newKeyValueStore(cfg, pool, a)
	if err != nil {
		return nil, err
	}

	source, err := newCatalogSource(cfg, pool)
	if err != nil {
		return nil, err
	}

	view, err := service.NewCatalogView(source, logger)
	if err != nil {
		return nil, fmt.Errorf("service.NewCatalogView: %w", err)
	}

	cartStore, err := service.NewCartStore(ctx, kv,
		service.Notifiers{service.NewLogNotifier(logger)},
		service.WithLogger(logger),
		service.WithCurrency(cfg.Currency),
		service.WithTaxRate(cfg.TaxRate),
	)
	if err != nil {
		return nil, fmt.Errorf("service.NewCartStore: %w", err)
	}
	a.closers = append(a.closers, cartStore.Close)

	a.Catalog = view
	a.Cart = cartStore
	a.Out = out

	logger.WithFields(logrus.Fields{
		"storage": cfg.Storage,
		"catalog": cfg.Catalog,
	}).Debug("storefront wired")

	return a, nil
}

func newKeyValueStore(cfg config.Config, pool *pgxpool.Pool, a *app) (port.KeyValueStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemoryStore(), nil

	case config.StorageFile:
		store, err := repository.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("repository.NewFileStore: %w", err)
		}
		return store, nil

	case config.StoragePostgres:
		return repository.NewPostgresStore(pool), nil

	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis.ParseURL: %w", err)
		}

		client := redis.NewClient(opts)
		a.closers = append(a.closers, func(context.Context) error {
			return client.Close()
		})

		store, err := repository.NewRedisStore(client, repository.WithKeyPrefix(cfg.RedisKeyPrefix))
		if err != nil {
			return nil, fmt.Errorf("repository.NewRedisStore: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("storage[%s] is not supported", cfg.Storage)
	}
}

func newCatalogSource(cfg config.Config, pool *pgxpool.Pool) (port.CatalogSource, error) {
	switch cfg.Catalog {
	case config.CatalogJSON:
		// by-id reads are faster than listings, 200ms against the default 300ms
		catalog, err := repository.LoadJSONCatalog(cfg.CatalogPath,
			repository.WithLatency(cfg.CatalogLatency, cfg.CatalogLatency*2/3))
		if err != nil {
			return nil, fmt.Errorf("repository.LoadJSONCatalog: %w", err)
		}
		return catalog, nil

	case config.CatalogPostgres:
		return repository.NewPostgresCatalog(pool), nil

	default:
		return nil, fmt.Errorf("catalog[%s] is not supported", cfg.Catalog)
	}
}

type dbAdmin struct {
	pool        *pgxpool.Pool
	catalogPath string
}

func (d *dbAdmin) Migrate(ctx context.Context) ([]string, error) {
	return migrations.Apply(ctx, d.pool)
}

// Seed copies the JSON catalog into the products table.
func (d *dbAdmin) Seed(ctx context.Context) (int, error) {
	source, err := repository.LoadJSONCatalog(d.catalogPath, repository.WithLatency(0, 0))
	if err != nil {
		return 0, fmt.Errorf("repository.LoadJSONCatalog: %w", err)
	}

	products, err := source.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("source.GetAll: %w", err)
	}
	if len(products) == 0 {
		return 0, errors.New("catalog is empty")
	}

	return repository.NewPostgresCatalog(d.pool).Seed(ctx, products)
}
