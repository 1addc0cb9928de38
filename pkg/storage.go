package pkg

import (
	"fmt"

	"github.com/formlab/formbuilder/internal/config"
	"github.com/formlab/formbuilder/internal/storage"
)

// NewBackend creates the storage backend selected by STORAGE_DRIVER.
func NewBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryBackend(), nil
	case config.DriverFile:
		return storage.NewFileBackend(cfg.DataDir)
	case config.DriverRedis:
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisBackend(client, "formbuilder:"), nil
	case config.DriverPostgres:
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewGormBackend(db)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.StorageDriver)
	}
}
