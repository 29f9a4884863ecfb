package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-invoice-ledger/validation"
	"github.com/shopspring/decimal"
)

// DateLayout is how invoice dates are printed on documents and in the ledger.
const DateLayout = "2006-01-02"

// CustomerIDPrefix prefixes the trailing phone digits to form a customer id.
const CustomerIDPrefix = "INV_"

// ItemInput is one submitted line of the invoice form, in form order.
type ItemInput struct {
	Name      string          `json:"name" yaml:"name"`
	UnitPrice decimal.Decimal `json:"price" yaml:"-"`
	Quantity  int             `json:"quantity" yaml:"quantity"`
}

// Price bounds enforced by Collect. Prices carry at most two decimal places
// and stay below MaxUnitPrice.
const (
	PriceScale   = 2
	MaxUnitPrice = 1_000_000_000
	MaxQuantity  = 1_000_000
)

var maxUnitPrice = decimal.NewFromInt(MaxUnitPrice)

// LineItem is a collected invoice line with its computed total.
type LineItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"total"`
}

// CustomerDetails carries the non-item part of a submission.
type CustomerDetails struct {
	Name           string
	Phone          string
	Email          string
	BillingAddress string
	InvoiceDate    time.Time
	PaymentMode    PaymentMode
}

// Invoice is the immutable snapshot built from one submission. The rendered
// document and the ledger rows are both derived from the same value.
type Invoice struct {
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	BillingAddress string          `json:"billing_address"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	PaymentMode    PaymentMode     `json:"payment_mode"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// LedgerRow is the projection of one line item written to the ledger.
// Price and total are intentionally absent.
type LedgerRow struct {
	CustomerID   string
	CustomerName string
	Email        string
	InvoiceDate  string
	ItemName     string
	Quantity     int
}

// Collect turns the submitted rows into line items, one per input and in the
// same order. Zero prices and quantities are kept. An empty name falls back to
// the first catalog entry, which is what the form preselects.
func Collect(inputs []ItemInput) ([]LineItem, validation.Violations) {
	v := make(validation.Violations)
	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = Catalog[0]
		}
		validation.OneOf(fmt.Sprintf("item_%d", i), name, Catalog, v)
		priceField := fmt.Sprintf("price_%d", i)
		if msg := checkPrice(in.UnitPrice); msg != "" {
			v[priceField] = msg
		}
		quantField := fmt.Sprintf("quant_%d", i)
		validation.NonNegativeInt(quantField, in.Quantity, v)
		if in.Quantity > MaxQuantity {
			v[quantField] = "too_large"
		}
		item := LineItem{Name: name, UnitPrice: in.UnitPrice, Quantity: in.Quantity}
		if v.Empty() {
			item.LineTotal = in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		}
		items = append(items, item)
	}
	return items, v
}

// checkPrice returns the violation code for p, or "" when p is acceptable.
// Exponent and digit count are inspected before any comparison: comparing
// decimals rescales both operands, which is slow for extreme exponents.
func checkPrice(p decimal.Decimal) string {
	if p.IsNegative() {
		return "must_not_be_negative"
	}
	if p.IsZero() {
		return ""
	}
	exp := p.Exponent()
	if exp < -PriceScale {
		// Trailing zeros ("1.500") are fine. Anything finer than 1e-20 is not
		// worth rounding to find out.
		if exp < -20 || !p.Equal(p.Round(PriceScale)) {
			return "too_precise"
		}
	}
	if int64(p.NumDigits())+int64(exp) > 10 {
		return "too_large"
	}
	if p.GreaterThanOrEqual(maxUnitPrice) {
		return "too_large"
	}
	return ""
}

// CustomerID derives the invoice customer id from the last four characters of
// phone. Shorter phone numbers are used whole.
func CustomerID(phone string) string {
	r := []rune(phone)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return CustomerIDPrefix + string(r)
}

// Subtotal sums the line totals.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal)
	}
	return sum
}

// RequiredViolations reports the missing required fields of a submission with
// n item rows.
func RequiredViolations(d CustomerDetails, n int) validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", d.Name, v)
	validation.Required("phno", d.Phone, v)
	validation.Required("email", d.Email, v)
	validation.Required("ad", d.BillingAddress, v)
	if n == 0 {
		v["num_items"] = "required"
	}
	return v
}

// NewInvoice validates a submission and builds the invoice. Missing required
// fields (or no items at all) are reported together under one message before
// any item is looked at.
func NewInvoice(d CustomerDetails, inputs []ItemInput) (*Invoice, error) {
	if v := RequiredViolations(d, len(inputs)); !v.Empty() {
		return nil, &ValidationError{Message: MsgRequiredFields, Violations: v}
	}

	items, iv := Collect(inputs)
	mode := d.PaymentMode
	if mode == "" {
		mode = PaymentCash
	}
	if !mode.IsValid() {
		iv["mop"] = "not_allowed"
	}
	if !iv.Empty() {
		return nil, &ValidationError{Message: MsgInvalidEntries, Violations: iv}
	}

	date := d.InvoiceDate
	if date.IsZero() {
		date = time.Now()
	}
	return &Invoice{
		CustomerID:     CustomerID(d.Phone),
		CustomerName:   d.Name,
		Phone:          d.Phone,
		Email:          d.Email,
		BillingAddress: d.BillingAddress,
		InvoiceDate:    date,
		PaymentMode:    mode,
		Items:          items,
		Subtotal:       Subtotal(items),
	}, nil
}

// FormattedDate returns the invoice date as printed.
func (i *Invoice) FormattedDate() string {
	return i.InvoiceDate.Format(DateLayout)
}

// FileName is the download name of the rendered document.
func (i *Invoice) FileName() string {
	return "invoice_" + i.CustomerID + ".pdf"
}

// LedgerRows projects the invoice into one ledger row per line item.
func (i *Invoice) LedgerRows() []LedgerRow {
	rows := make([]LedgerRow, 0, len(i.Items))
	for _, it := range i.Items {
		rows = append(rows, LedgerRow{
			CustomerID:   i.CustomerID,
			CustomerName: i.CustomerName,
			Email:        i.Email,
			InvoiceDate:  i.FormattedDate(),
			ItemName:     it.Name,
			Quantity:     it.Quantity,
		})
	}
	return rows
}
