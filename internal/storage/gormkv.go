package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one persisted key. The value is the same JSON document the
// other backends store verbatim, kept as JSONB so it stays queryable.
type KVEntry struct {
	Key       string         `gorm:"primaryKey;size:128"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// GormBackend stores keys in a single relational table through GORM.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

func (b *GormBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := b.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (b *GormBackend) Write(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: datatypes.JSON(value)}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}
