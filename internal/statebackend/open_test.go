package statebackend

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/kv"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{State: config.StateConfig{Driver: enums.StateDriverMemory}}
	h, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &kv.Memory{}, h.Backend)
	assert.NoError(t, h.Close())
}

func TestOpenSQLiteWithAutoMigrate(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		State:        config.StateConfig{Driver: enums.StateDriverSQLite},
		DB:           config.DBConfig{DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	h, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	require.NoError(t, h.Backend.Set(ctx, "cart", "[]"))
	got, err := h.Backend.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	_, err = h.Backend.Get(ctx, "user")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{State: config.StateConfig{Driver: "etcd"}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestHandleCloseCombinesErrors(t *testing.T) {
	h := &Handle{closers: []func() error{
		func() error { return fmt.Errorf("first") },
		func() error { return nil },
		func() error { return fmt.Errorf("third") },
	}}
	err := h.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "third")
	assert.NoError(t, h.Close())
}
