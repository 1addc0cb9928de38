package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each key as one JSON document in a directory. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// half-written document behind.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Read(ctx context.Context, key string) ([]byte, error) {
	value, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (b *FileBackend) Write(ctx context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for key %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for key %q: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), b.path(key)); err != nil {
		return fmt.Errorf("failed to persist key %q: %w", key, err)
	}
	return nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}
