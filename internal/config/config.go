// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Ledger backends.
const (
	BackendSheets = "sheets"
	BackendSQL    = "sql"
	BackendMemory = "memory"
)

// DefaultSheetURL is the shared invoice ledger.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/1whMQ8VX585ea-1_gdVi3I41bP1tHFtwYcJ0hTaDfvyM/edit?usp=sharing"

var (
	ErrUnknownBackend = errors.New("unknown ledger backend")
	ErrUnknownDriver  = errors.New("unknown database driver")
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Ledger   LedgerConfig
	Seller   SellerConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the SQL ledger connection settings.
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	DSN    string
	Debug  bool
}

// LedgerConfig selects and configures the ledger backend.
type LedgerConfig struct {
	Backend         string
	SheetURL        string
	CredentialsFile string
	Worksheet       int
	Timeout         time.Duration
	ValueInput      string
}

// SellerConfig overrides the letterhead printed on invoices. Empty values
// keep the built-in letterhead.
type SellerConfig struct {
	Name    string
	Address []string
	Font    string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env string
	Dev bool
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetInt("SERVER_IDLE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
			Debug:  v.GetBool("DB_DEBUG"),
		},
		Ledger: LedgerConfig{
			Backend:         strings.ToLower(v.GetString("LEDGER_BACKEND")),
			SheetURL:        v.GetString("LEDGER_SHEET_URL"),
			CredentialsFile: v.GetString("LEDGER_CREDENTIALS_FILE"),
			Worksheet:       v.GetInt("LEDGER_WORKSHEET"),
			Timeout:         v.GetDuration("LEDGER_TIMEOUT"),
			ValueInput:      v.GetString("LEDGER_VALUE_INPUT"),
		},
		Seller: SellerConfig{
			Name:    v.GetString("SELLER_NAME"),
			Address: splitLines(v.GetString("SELLER_ADDRESS")),
			Font:    v.GetString("PDF_FONT"),
		},
		App: AppConfig{
			Env: v.GetString("APP_ENV"),
			Dev: v.GetBool("DEV"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:ledger.db?cache=shared")
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("LEDGER_BACKEND", BackendSheets)
	v.SetDefault("LEDGER_SHEET_URL", DefaultSheetURL)
	v.SetDefault("LEDGER_CREDENTIALS_FILE", "invoice-system-app.json")
	v.SetDefault("LEDGER_WORKSHEET", 0)
	v.SetDefault("LEDGER_TIMEOUT", 30*time.Second)
	v.SetDefault("LEDGER_VALUE_INPUT", "USER_ENTERED")
	v.SetDefault("SELLER_NAME", "")
	v.SetDefault("SELLER_ADDRESS", "")
	v.SetDefault("PDF_FONT", "Helvetica")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEV", false)
}

// splitLines splits a "|" separated address into trimmed, non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports configuration that cannot work at all.
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendSheets, BackendMemory:
	case BackendSQL:
		switch c.Database.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Ledger.Backend)
	}
	if c.Ledger.Timeout <= 0 {
		return fmt.Errorf("LEDGER_TIMEOUT must be positive, got %s", c.Ledger.Timeout)
	}
	return nil
}

// IsProduction reports whether the app runs with production logging.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
