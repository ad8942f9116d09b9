package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/nikolayk812/storefront-core/internal/port"
	"github.com/nikolayk812/storefront-core/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testKeyValueStore(t, repository.NewMemoryStore())
}

func TestMemoryStore_valuesAreCopied(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryStore()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'Y'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}

func TestFileStore(t *testing.T) {
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)

	testKeyValueStore(t, store)
}

func TestFileStore_survivesReopen(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	first, err := repository.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "cart/items", []byte(`[{"id":1}]`)))

	second, err := repository.NewFileStore(dir)
	require.NoError(t, err)

	got, err := second.Get(ctx, "cart/items")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))
}

func TestNewFileStore_emptyDir(t *testing.T) {
	_, err := repository.NewFileStore(" ")
	require.EqualError(t, err, "dir is empty")
}

func TestFileStore_cancelledContext(t *testing.T) {
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err = store.Set(ctx, "k", []byte("v"))
	require.ErrorIs(t, err, context.Canceled)
}

// testKeyValueStore checks the behaviour every port.KeyValueStore must share.
func testKeyValueStore(t *testing.T, store port.KeyValueStore) {
	t.Helper()

	tests := []struct {
		name      string
		key       string
		value     []byte
		wantError string
	}{
		{
			name:  "set and get: ok",
			key:   gofakeit.UUID(),
			value: []byte(gofakeit.Sentence(5)),
		},
		{
			name:  "set and get json: ok",
			key:   "cartItems",
			value: []byte(`[{"id":7,"title":"Mug","price":"10","quantity":3}]`),
		},
		{
			name:  "set empty value: ok",
			key:   gofakeit.UUID(),
			value: []byte{},
		},
		{
			name:      "set with empty key: error",
			key:       "",
			value:     []byte("x"),
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()

			err := store.Set(ctx, tt.key, tt.value)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := store.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, string(tt.value), string(got))
		})
	}

	t.Run("overwrite: last value wins", func(t *testing.T) {
		ctx := t.Context()
		key := gofakeit.UUID()

		require.NoError(t, store.Set(ctx, key, []byte("first")))
		require.NoError(t, store.Set(ctx, key, []byte("second")))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("get absent key: not found", func(t *testing.T) {
		_, err := store.Get(t.Context(), gofakeit.UUID())
		require.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("delete: ok and idempotent", func(t *testing.T) {
		ctx := t.Context()
		key := gofakeit.UUID()

		require.NoError(t, store.Set(ctx, key, []byte("v")))
		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		require.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("get with empty key: error", func(t *testing.T) {
		_, err := store.Get(t.Context(), "")
		require.EqualError(t, err, "key is empty")
	})
}
