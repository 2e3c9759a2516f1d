package db

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/kv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateBackend stores client-state documents in the state_entries table.
type StateBackend struct {
	db  *gorm.DB
	now func() time.Time
}

var _ kv.Backend = (*StateBackend)(nil)

// NewStateBackend binds the backend to the client's connection.
func NewStateBackend(client *Client) *StateBackend {
	return &StateBackend{db: client.DB(), now: time.Now}
}

func (b *StateBackend) Get(ctx context.Context, key string) (string, error) {
	var entry models.StateEntry
	err := b.db.WithContext(ctx).
		Where("state_key = ?", key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Payload, nil
}

// Set upserts the document in a single statement.
func (b *StateBackend) Set(ctx context.Context, key, value string) error {
	entry := models.StateEntry{
		Key:       key,
		Payload:   value,
		UpdatedAt: b.now().UTC(),
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&entry).Error
}

func (b *StateBackend) Remove(ctx context.Context, key string) error {
	return b.db.WithContext(ctx).
		Where("state_key = ?", key).
		Delete(&models.StateEntry{}).Error
}

func (b *StateBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
