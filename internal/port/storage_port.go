package port

import "context"

// KeyValueStore is the durable store the cart snapshot is written to.
// Get returns domain.ErrKeyNotFound when the key is absent; Delete of an absent key succeeds.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
