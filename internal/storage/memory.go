package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. It is the test double for
// every component built on Backend and the default driver for throwaway
// usage; nothing survives a restart.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (b *MemoryBackend) Write(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	b.entries[key] = stored
	return nil
}
