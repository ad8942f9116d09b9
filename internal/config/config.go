// Package config reads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
)

type StorageKind string

const (
	StorageMemory   StorageKind = "memory"
	StorageFile     StorageKind = "file"
	StoragePostgres StorageKind = "postgres"
	StorageRedis    StorageKind = "redis"
)

type CatalogKind string

const (
	CatalogJSON     CatalogKind = "json"
	CatalogPostgres CatalogKind = "postgres"
)

type Config struct {
	Storage        StorageKind
	StateDir       string
	DatabaseURL    string
	RedisURL       string
	RedisKeyPrefix string
	Catalog        CatalogKind
	CatalogPath    string
	CatalogLatency time.Duration
	Currency       currency.Unit
	TaxRate        decimal.Decimal
	LogLevel       logrus.Level
}

// Load reads .env when present, then the environment. Variables already set win over .env.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	latency, err := time.ParseDuration(getEnv("STOREFRONT_CATALOG_LATENCY", "300ms"))
	if err != nil {
		return Config{}, fmt.Errorf("STOREFRONT_CATALOG_LATENCY: %w", err)
	}

	unit, err := currency.ParseISO(getEnv("STOREFRONT_CURRENCY", "INR"))
	if err != nil {
		return Config{}, fmt.Errorf("STOREFRONT_CURRENCY: %w", err)
	}

	taxRate, err := decimal.NewFromString(getEnv("STOREFRONT_TAX_RATE", "0.18"))
	if err != nil {
		return Config{}, fmt.Errorf("STOREFRONT_TAX_RATE: %w", err)
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := Config{
		Storage:        StorageKind(strings.ToLower(getEnv("STOREFRONT_STORAGE", string(StorageFile)))),
		StateDir:       getEnv("STOREFRONT_STATE_DIR", ".storefront"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisKeyPrefix: getEnv("STOREFRONT_REDIS_PREFIX", "storefront:"),
		Catalog:        CatalogKind(strings.ToLower(getEnv("STOREFRONT_CATALOG", string(CatalogJSON)))),
		CatalogPath:    os.Getenv("STOREFRONT_CATALOG_PATH"),
		CatalogLatency: latency,
		Currency:       unit,
		TaxRate:        taxRate,
		LogLevel:       level,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis:
	case StorageFile:
		if strings.TrimSpace(c.StateDir) == "" {
			return fmt.Errorf("STOREFRONT_STATE_DIR is empty")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s storage", c.Storage)
		}
	default:
		return fmt.Errorf("storage[%s] is not supported", c.Storage)
	}

	switch c.Catalog {
	case CatalogJSON:
	case CatalogPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s catalog", c.Catalog)
		}
	default:
		return fmt.Errorf("catalog[%s] is not supported", c.Catalog)
	}

	if c.CatalogLatency < 0 {
		return fmt.Errorf("catalog latency[%s] is negative", c.CatalogLatency)
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate[%s] is negative", c.TaxRate)
	}
	return nil
}

// UsesPostgres reports whether any component needs a database pool.
func (c Config) UsesPostgres() bool {
	return c.Storage == StoragePostgres || c.Catalog == CatalogPostgres
}

// NewLogger returns a text logger writing to stderr at level.
func NewLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
