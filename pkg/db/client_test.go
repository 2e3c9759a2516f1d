package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.StateEntry{}))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewFromGorm(conn, enums.StateDriverSQLite)
}

func TestStateBackendLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := NewStateBackend(newTestClient(t))

	_, err := backend.Get(ctx, "orders")
	require.True(t, errors.Is(err, kv.ErrNotFound), "expected not found, got %v", err)

	require.NoError(t, backend.Set(ctx, "orders", `[]`))
	got, err := backend.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, backend.Remove(ctx, "orders"))
	_, err = backend.Get(ctx, "orders")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, backend.Remove(ctx, "orders"), "removing a missing key is not an error")
}

func TestStateBackendUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	backend := NewStateBackend(client)

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	backend.now = func() time.Time { return first }
	require.NoError(t, backend.Set(ctx, "cart", `[{"id":1,"quantity":1}]`))

	second := first.Add(time.Minute)
	backend.now = func() time.Time { return second }
	require.NoError(t, backend.Set(ctx, "cart", `[{"id":1,"quantity":4}]`))

	var rows []models.StateEntry
	require.NoError(t, client.DB().Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, `[{"id":1,"quantity":4}]`, rows[0].Payload)
	assert.True(t, rows[0].UpdatedAt.Equal(second), "updated_at should move forward, got %v", rows[0].UpdatedAt)
}

func TestClientPingAndClose(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, enums.StateDriverSQLite, client.Driver())
	require.NoError(t, client.Close())
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRejectsNonSQLDrivers(t *testing.T) {
	_, err := New(context.Background(), enums.StateDriverRedis, config.DBConfig{DSN: "x"}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), enums.StateDriverSQLite, config.DBConfig{}, nil)
	assert.Error(t, err)
}

func TestNewOpensSQLite(t *testing.T) {
	client, err := New(context.Background(), enums.StateDriverSQLite, config.DBConfig{DSN: "file:new_opens?mode=memory&cache=shared"}, nil)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()))
}
