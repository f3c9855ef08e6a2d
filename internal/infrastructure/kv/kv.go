package kv

import "context"

// Keys under which the repository snapshots its state. Each key holds one
// serialized snapshot of the whole collection, rewritten on every mutation.
const (
	KeyProducts  = "pterohub_products"
	KeyPurchases = "pterohub_purchases"
	KeyAdmin     = "pterohub_admin"
	KeySettings  = "pterohub_settings"
)

// Store is an opaque blob store holding one serialized snapshot per key.
type Store interface {
	// Get returns the snapshot stored under key, or found=false if the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the snapshot stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
