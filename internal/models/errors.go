package models

import (
	"strings"

	"github.com/diewo77/go-invoice-ledger/validation"
)

const (
	// MsgRequiredFields is the single message shown whenever a required field is missing.
	MsgRequiredFields = "Please fill in all the required fields."
	// MsgInvalidEntries is shown when line items or the payment mode carry unacceptable values.
	MsgInvalidEntries = "Please correct the invalid entries."
)

// ValidationError is returned by NewInvoice when a submission cannot be turned
// into an invoice. Nothing is rendered or written when it occurs.
type ValidationError struct {
	Message    string
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(e.Violations.Fields(), ", ") + ")"
}

// Fields lists the offending form fields.
func (e *ValidationError) Fields() []string { return e.Violations.Fields() }
