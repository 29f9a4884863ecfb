package models

// Catalog is the fixed list of sellable items. Names are kept exactly as
// they appear on printed invoices and in the ledger history.
var Catalog = []string{
	"Eggs",
	"Milk",
	"Bread",
	"Chocolates",
	"Coffee",
	"Fruits",
	"Protien Bar",
	"Butter",
	"Cake",
	"Cheese",
}

// PaymentMode represents how the customer settles the invoice.
type PaymentMode string

const (
	PaymentCash       PaymentMode = "Cash"
	PaymentCreditCard PaymentMode = "Credit Card"
	PaymentDebitCard  PaymentMode = "Debit Card"
	PaymentUPI        PaymentMode = "UPI"
)

// PaymentModes lists the accepted payment modes in display order.
var PaymentModes = []PaymentMode{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI}

// IsValid reports whether m is one of PaymentModes.
func (m PaymentMode) IsValid() bool {
	for _, pm := range PaymentModes {
		if m == pm {
			return true
		}
	}
	return false
}
