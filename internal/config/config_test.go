package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Ledger.Backend != BackendSheets {
		t.Errorf("Backend = %q", cfg.Ledger.Backend)
	}
	if cfg.Ledger.SheetURL != DefaultSheetURL {
		t.Errorf("SheetURL = %q", cfg.Ledger.SheetURL)
	}
	if cfg.Ledger.CredentialsFile != "invoice-system-app.json" {
		t.Errorf("CredentialsFile = %q", cfg.Ledger.CredentialsFile)
	}
	if cfg.Ledger.Worksheet != 0 {
		t.Errorf("Worksheet = %d", cfg.Ledger.Worksheet)
	}
	if cfg.Ledger.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s", cfg.Ledger.Timeout)
	}
	if len(cfg.Seller.Address) != 0 {
		t.Errorf("Seller.Address = %v", cfg.Seller.Address)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LEDGER_BACKEND", "SQL")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LEDGER_TIMEOUT", "5s")
	t.Setenv("SELLER_NAME", "Acme Foods")
	t.Setenv("SELLER_ADDRESS", " 1 Market Road | | Pune ")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Ledger.Backend != BackendSQL || cfg.Database.Driver != "postgres" {
		t.Errorf("backend/driver = %q/%q", cfg.Ledger.Backend, cfg.Database.Driver)
	}
	if cfg.Ledger.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Ledger.Timeout)
	}
	if cfg.Seller.Name != "Acme Foods" {
		t.Errorf("Seller.Name = %q", cfg.Seller.Name)
	}
	if len(cfg.Seller.Address) != 2 || cfg.Seller.Address[0] != "1 Market Road" || cfg.Seller.Address[1] != "Pune" {
		t.Errorf("Seller.Address = %#v", cfg.Seller.Address)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Ledger.Backend = "excel"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}

	cfg = Load()
	cfg.Ledger.Backend = BackendSQL
	cfg.Database.Driver = "mysql"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}

	cfg = Load()
	cfg.Ledger.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected timeout error")
	}
}
