package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Read when a key has never been written.
var ErrKeyNotFound = errors.New("storage: key not found")

// Backend is the minimal durable key-value capability the persistence store
// is built on, the analogue of the browser's origin-scoped local storage.
// Implementations are expected to make Write durable before returning, but
// give no isolation guarantee across processes: concurrent writers to the
// same key are last-write-wins.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}
