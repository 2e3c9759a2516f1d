package config

import (
	"os"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvAppEnv, "dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.State.Driver != enums.StateDriverMemory {
		t.Fatalf("expected memory driver by default, got %q", cfg.State.Driver)
	}
	if cfg.State.StrictDecode {
		t.Fatalf("expected lenient decode by default")
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.Checkout.TaxRate.String() != "0.18" {
		t.Fatalf("expected default tax rate 0.18, got %s", cfg.Checkout.TaxRate)
	}
	if len(cfg.App.CORSOrigins) != 2 {
		t.Fatalf("expected two default CORS origins, got %v", cfg.App.CORSOrigins)
	}
	if cfg.Redis.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected redis read timeout %v", cfg.Redis.ReadTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(EnvAppEnv, "dev")
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_DriverRequirements(t *testing.T) {
	t.Run("redis needs an address", func(t *testing.T) {
		t.Setenv(EnvAppEnv, "dev")
		t.Setenv(EnvStateDriver, "redis")
		if _, err := Load(); err == nil {
			t.Fatal("expected error without redis url")
		}
		t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
		if _, err := Load(); err != nil {
			t.Fatalf("unexpected error with redis url: %v", err)
		}
	})

	t.Run("sqlite falls back to a local file", func(t *testing.T) {
		t.Setenv(EnvAppEnv, "dev")
		t.Setenv(EnvStateDriver, "sqlite")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DB.DSN != DefaultSQLiteDSN {
			t.Fatalf("expected default sqlite dsn, got %q", cfg.DB.DSN)
		}
	})

	t.Run("postgres needs a dsn", func(t *testing.T) {
		t.Setenv(EnvAppEnv, "dev")
		t.Setenv(EnvStateDriver, "postgres")
		if _, err := Load(); err == nil {
			t.Fatal("expected error without dsn")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv(EnvAppEnv, "dev")
		t.Setenv(EnvStateDriver, "localstorage")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})
}

func TestLoad_NegativeTaxRate(t *testing.T) {
	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvCheckoutTaxRate, "-0.1")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative tax rate to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() || devConfig.IsProd() {
		t.Fatalf("unexpected helpers for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() || prodConfig.IsDev() {
		t.Fatalf("unexpected helpers for %q", prodConfig.Env)
	}
}
