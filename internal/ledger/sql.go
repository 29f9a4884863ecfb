package ledger

import (
	"context"

	"github.com/diewo77/go-invoice-ledger/internal/models"
	"gorm.io/gorm"
)

// SQLBackend stores ledger rows in the ledger_rows table. Rows are inserted
// directly, so appends never rewrite existing data.
type SQLBackend struct {
	db  *gorm.DB
	url string
}

// NewSQLBackend wraps an opened and migrated database. label is reported as
// the ledger location on success.
func NewSQLBackend(db *gorm.DB, label string) *SQLBackend {
	return &SQLBackend{db: db, url: label}
}

// Open checks the connection and returns a sheet that inserts rows natively.
func (b *SQLBackend) Open(ctx context.Context) (Sheet, error) {
	sqlDB, err := b.db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	return &sqlSheet{db: b.db.WithContext(ctx), url: b.url}, nil
}

type sqlSheet struct {
	db  *gorm.DB
	url string
}

// AppendRows inserts the rows in one transaction.
func (w *sqlSheet) AppendRows(ctx context.Context, rows []models.LedgerRow) error {
	if len(rows) == 0 {
		return nil
	}
	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.LedgerEntry{
			CustomerID:  r.CustomerID,
			Name:        r.CustomerName,
			Email:       r.Email,
			InvoiceDate: r.InvoiceDate,
			Item:        r.ItemName,
			Quantity:    r.Quantity,
		})
	}
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entries).Error
	})
}

func (w *sqlSheet) URL() string { return w.url }
