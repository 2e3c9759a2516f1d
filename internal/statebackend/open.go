// Package statebackend builds the kv.Backend selected by configuration.
package statebackend

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/kv"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/redis"
)

// Handle owns an opened backend and the resources behind it.
type Handle struct {
	Backend kv.Backend
	Driver  enums.StateDriver

	closers []func() error
}

// Close releases every resource opened for the backend.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	var errs error
	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, h.closers[i]())
	}
	h.closers = nil
	return errs
}

// Open connects the backend for cfg.State.Driver. SQL drivers run pending
// migrations first when auto-migrate is enabled.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Handle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	driver := cfg.State.Driver
	ctx = logg.WithField(ctx, "state_driver", driver.String())

	switch driver {
	case enums.StateDriverMemory:
		logg.Warn(ctx, "using in-memory state backend, data is lost on restart")
		return &Handle{Backend: kv.NewMemory(), Driver: driver}, nil

	case enums.StateDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, cfg.State.Namespace, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		logg.Info(ctx, "state backend ready")
		return &Handle{Backend: client, Driver: driver, closers: []func() error{client.Close}}, nil

	case enums.StateDriverSQLite, enums.StateDriverPostgres:
		client, err := db.New(ctx, driver, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		h := &Handle{Backend: db.NewStateBackend(client), Driver: driver, closers: []func() error{client.Close}}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("run migrations: %w", err), h.Close())
		}
		logg.Info(ctx, "state backend ready")
		return h, nil
	}
	return nil, fmt.Errorf("unsupported state driver %q", driver)
}
