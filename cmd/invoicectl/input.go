package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// invoiceFile is the YAML description of one invoice.
type invoiceFile struct {
	Name        string     `yaml:"name"`
	Phone       string     `yaml:"phone"`
	Email       string     `yaml:"email"`
	Address     string     `yaml:"address"`
	Date        string     `yaml:"date"`
	PaymentMode string     `yaml:"payment_mode"`
	Items       []fileItem `yaml:"items"`
}

type fileItem struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Quantity int    `yaml:"quantity"`
}

func loadInvoiceFile(path string) (*invoiceFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f invoiceFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// submission converts the file into service input.
func (f *invoiceFile) submission() (models.CustomerDetails, []models.ItemInput, error) {
	d := models.CustomerDetails{
		Name:           f.Name,
		Phone:          f.Phone,
		Email:          f.Email,
		BillingAddress: f.Address,
		PaymentMode:    models.PaymentMode(f.PaymentMode),
	}
	if s := strings.TrimSpace(f.Date); s != "" {
		t, err := time.Parse(models.DateLayout, s)
		if err != nil {
			return d, nil, fmt.Errorf("date %q: %w", f.Date, err)
		}
		d.InvoiceDate = t
	}
	items := make([]models.ItemInput, 0, len(f.Items))
	for i, it := range f.Items {
		price := decimal.Zero
		if s := strings.TrimSpace(it.Price); s != "" {
			p, err := decimal.NewFromString(s)
			if err != nil {
				return d, nil, fmt.Errorf("items[%d].price %q: %w", i, it.Price, err)
			}
			price = p
		}
		items = append(items, models.ItemInput{Name: it.Name, UnitPrice: price, Quantity: it.Quantity})
	}
	return d, items, nil
}
