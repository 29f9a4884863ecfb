package models

import "time"

// LedgerEntry is one ledger row as stored by the SQL ledger backend.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	CustomerID  string    `gorm:"size:64;index;not null" json:"customer_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	InvoiceDate string    `gorm:"size:32;not null" json:"invoice_date"`
	Item        string    `gorm:"size:100;not null" json:"item"`
	Quantity    int       `gorm:"not null" json:"quantity"`
}

// TableName keeps the table name stable regardless of the struct name.
func (LedgerEntry) TableName() string { return "ledger_rows" }
