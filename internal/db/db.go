package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/config"
	"github.com/diewo77/go-invoice-ledger/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQL ledger database, retrying a few times so a
// database container has time to start.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info("database connected", zap.String("driver", cfg.Driver), zap.String("dsn", MaskDSN(dsn)))
	return db, nil
}

// Migrate creates or updates the ledger table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.LedgerEntry{}); err != nil {
		return fmt.Errorf("automigrate %T: %w", &models.LedgerEntry{}, err)
	}
	if !db.Migrator().HasTable(&models.LedgerEntry{}) {
		return errors.New("missing table after migration: " + models.LedgerEntry{}.TableName())
	}
	return nil
}
