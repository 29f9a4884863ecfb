package ledger

import (
	"testing"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenBackendSelectsImplementation(t *testing.T) {
	cfg := &config.Config{
		Ledger: config.LedgerConfig{Backend: config.BackendMemory},
	}
	b, err := OpenBackend(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	cfg.Ledger = config.LedgerConfig{Backend: config.BackendSheets, SheetURL: config.DefaultSheetURL}
	b, err = OpenBackend(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SheetsBackend{}, b)

	cfg.Ledger = config.LedgerConfig{Backend: config.BackendSQL}
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}
	b, err = OpenBackend(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLBackend{}, b)
}

func TestOpenBackendUnknown(t *testing.T) {
	_, err := OpenBackend(&config.Config{Ledger: config.LedgerConfig{Backend: "csv"}}, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestFromConfigAppliesTimeout(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Backend: config.BackendMemory, Timeout: 5 * time.Second}}
	l, err := FromConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, l.timeout)
}
