package storage

import (
	"context"
	"errors"
)

// Store is the durable per-identity key-value capability the ledgers
// persist through. Consumers define this interface, not the backing
// database: any implementation (in-memory map, Redis, Mongo) can be
// substituted without touching ledger logic.
type Store interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
}

var ErrKeyNotFound = errors.New("key not found")
