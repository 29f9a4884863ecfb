package ledger

import (
	"fmt"

	"github.com/diewo77/go-invoice-ledger/internal/config"
	"github.com/diewo77/go-invoice-ledger/internal/db"
	"go.uber.org/zap"
)

// OpenBackend builds the backend selected by cfg.Ledger.Backend. The SQL
// backend connects and migrates its table here.
func OpenBackend(cfg *config.Config, log *zap.Logger) (Backend, error) {
	switch cfg.Ledger.Backend {
	case config.BackendSheets:
		return NewSheetsBackend(SheetsConfig{
			SheetURL:        cfg.Ledger.SheetURL,
			CredentialsFile: cfg.Ledger.CredentialsFile,
			Worksheet:       cfg.Ledger.Worksheet,
			ValueInput:      cfg.Ledger.ValueInput,
		})
	case config.BackendSQL:
		gdb, err := db.Open(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gdb); err != nil {
			return nil, err
		}
		return NewSQLBackend(gdb, cfg.Database.Driver+":"+db.MaskDSN(cfg.Database.DSN)), nil
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Ledger.Backend)
	}
}

// FromConfig opens the configured backend and wraps it in a Ledger.
func FromConfig(cfg *config.Config, log *zap.Logger) (*Ledger, error) {
	b, err := OpenBackend(cfg, log)
	if err != nil {
		return nil, err
	}
	return New(b, WithTimeout(cfg.Ledger.Timeout), WithLogger(log)), nil
}
