package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/internal/state"
	"github.com/angelmondragon/storefront/internal/statebackend"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	handle, err := statebackend.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			logg.Error(context.Background(), "error closing state backend", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	policy := state.DecodeLenient
	if cfg.State.StrictDecode {
		policy = state.DecodeStrict
	}
	store, err := state.New(state.Options{
		Backend: handle.Backend,
		Logger:  logg,
		Metrics: metrics.NewStateMetrics(reg),
		Policy:  policy,
	})
	if err != nil {
		return err
	}

	services, err := buildServices(cfg, logg, store, reg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"state_driver": cfg.State.Driver.String(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			Services: services,
			Ready:    map[string]controllers.Pinger{"state": store},
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting storefront server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, logg *logger.Logger, store *state.Store, reg prometheus.Registerer) (routes.Services, error) {
	cartSvc, err := cart.NewService(store)
	if err != nil {
		return routes.Services{}, err
	}
	sessionSvc, err := session.NewService(store)
	if err != nil {
		return routes.Services{}, err
	}
	authSvc, err := auth.NewService(sessionSvc)
	if err != nil {
		return routes.Services{}, err
	}
	ordersSvc, err := orders.NewService(store)
	if err != nil {
		return routes.Services{}, err
	}
	taxRate := cfg.Checkout.TaxRate
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Cart:    cartSvc,
		Session: sessionSvc,
		Orders:  ordersSvc,
		TaxRate: &taxRate,
		Metrics: metrics.NewOrderMetrics(reg),
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	return routes.Services{
		Cart:     cartSvc,
		Session:  sessionSvc,
		Auth:     authSvc,
		Orders:   ordersSvc,
		Checkout: checkoutSvc,
	}, nil
}
