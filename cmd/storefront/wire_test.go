package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/nikolayk812/storefront-core/internal/cli"
	"github.com/nikolayk812/storefront-core/internal/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestWire_fileStorageSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.StorageFile)
	cfg.StateDir = t.TempDir()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	out := &bytes.Buffer{}
	first, err := wire(ctx, cfg, logger, out)
	require.NoError(t, err)
	assert.Nil(t, first.Admin)

	code, err := cli.Execute(ctx, cli.Invocation{
		Command: cli.CommandCart, CartAction: cli.CartAdd, ProductID: 4, Quantity: 2,
	}, first.App)
	require.NoError(t, err)
	require.Equal(t, cli.ExitSuccess, code)

	// close flushes the pending write
	first.close()

	second, err := wire(ctx, cfg, logger, out)
	require.NoError(t, err)
	t.Cleanup(second.close)

	cart := second.Cart.Cart()
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, int64(4), cart.Items[0].ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "USD 2858.00", second.Cart.Summary().Total.String())

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Classic Cotton Shirt added to cart")
}

func TestWire_unsupportedStorage(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := wire(context.Background(), testConfig("s3"), logger, &bytes.Buffer{})
	require.EqualError(t, err, "storage[s3] is not supported")
}

func TestRun_usageError(t *testing.T) {
	assert.Equal(t, cli.ExitUsage, run([]string{"checkout"}))
	assert.Equal(t, cli.ExitUsage, run(nil))
}

func testConfig(storage config.StorageKind) config.Config {
	return config.Config{
		Storage:  storage,
		Catalog:  config.CatalogJSON,
		Currency: currency.MustParseISO("USD"),
		TaxRate:  decimal.RequireFromString("0.1"),
		LogLevel: logrus.DebugLevel,
	}
}
