package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/ledger"
	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/diewo77/go-invoice-ledger/internal/pdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRenderer struct {
	err   error
	calls int
	seen  *models.Invoice
}

func (f *fakeRenderer) Render(inv *models.Invoice) ([]byte, error) {
	f.calls++
	f.seen = inv
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeLedger struct {
	err   error
	calls int
	seen  *models.Invoice
}

func (f *fakeLedger) Append(_ context.Context, inv *models.Invoice) (ledger.Result, error) {
	f.calls++
	f.seen = inv
	if f.err != nil {
		return ledger.Result{}, f.err
	}
	return ledger.Result{URL: "https://sheet", RowsAppended: len(inv.Items)}, nil
}

func details() models.CustomerDetails {
	return models.CustomerDetails{
		Name:           "Asha",
		Phone:          "9998887776",
		Email:          "a@x.com",
		BillingAddress: "12 Road",
		InvoiceDate:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PaymentMode:    models.PaymentUPI,
	}
}

func items() []models.ItemInput {
	return []models.ItemInput{
		{Name: "Milk", UnitPrice: decimal.NewFromInt(30), Quantity: 2},
		{Name: "Bread", UnitPrice: decimal.NewFromInt(40), Quantity: 2},
	}
}

func TestSubmitHappyPath(t *testing.T) {
	r, l := &fakeRenderer{}, &fakeLedger{}
	out, err := NewInvoiceService(r, l, nil).Submit(context.Background(), details(), items())
	require.NoError(t, err)
	assert.Equal(t, "invoice_INV_7776.pdf", out.FileName)
	assert.Equal(t, []byte("%PDF-fake"), out.Document)
	assert.True(t, out.LedgerOK())
	assert.Equal(t, 2, out.Ledger.RowsAppended)
	assert.True(t, decimal.NewFromInt(140).Equal(out.Invoice.Subtotal))
	assert.Same(t, r.seen, l.seen, "document and ledger must come from the same invoice")
	assert.NotEmpty(t, out.SubmissionID)
}

func TestSubmitValidationFailureSkipsEverything(t *testing.T) {
	r, l := &fakeRenderer{}, &fakeLedger{}
	_, err := NewInvoiceService(r, l, nil).Submit(context.Background(), details(), nil)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, models.MsgRequiredFields, ve.Message)
	assert.Zero(t, r.calls)
	assert.Zero(t, l.calls)
}

func TestSubmitRenderFailureSkipsLedger(t *testing.T) {
	renderErr := &pdf.RenderError{Err: errors.New("font")}
	l := &fakeLedger{}
	_, err := NewInvoiceService(&fakeRenderer{err: renderErr}, l, nil).Submit(context.Background(), details(), items())
	var re *pdf.RenderError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, l.calls)
}

func TestSubmitLedgerFailureKeepsDocument(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &fakeLedger{err: &ledger.Error{Op: ledger.OpOpen, Err: errors.New("unreachable")}}
	out, err := NewInvoiceService(&fakeRenderer{}, l, zap.New(core)).Submit(context.Background(), details(), items())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Document)
	assert.False(t, out.LedgerOK())
	var le *ledger.Error
	require.ErrorAs(t, out.LedgerErr, &le)
	assert.Equal(t, ledger.OpOpen, le.Op)

	warn := logs.FilterMessage("ledger append failed").All()
	require.Len(t, warn, 1)
	assert.NotEmpty(t, warn[0].ContextMap()["submission_id"])

	rendered := logs.FilterMessage("invoice rendered").All()
	require.Len(t, rendered, 1)
	assert.Equal(t, "****7776", rendered[0].ContextMap()["phone"])
}

func TestRenderDoesNotTouchLedger(t *testing.T) {
	l := &fakeLedger{}
	out, err := NewInvoiceService(&fakeRenderer{}, l, nil).Render(context.Background(), details(), items())
	require.NoError(t, err)
	assert.True(t, out.LedgerSkipped)
	assert.False(t, out.LedgerOK())
	assert.Zero(t, l.calls)
}

func TestSubmitWithoutLedger(t *testing.T) {
	out, err := NewInvoiceService(&fakeRenderer{}, nil, nil).Submit(context.Background(), details(), items())
	require.NoError(t, err)
	assert.Error(t, out.LedgerErr)
}

func TestSubmitEndToEndWithMemoryLedger(t *testing.T) {
	mem := ledger.NewMemoryBackend()
	svc := NewInvoiceService(pdf.NewRenderer(), ledger.New(mem), nil)
	out, err := svc.Submit(context.Background(), details(), items())
	require.NoError(t, err)
	assert.True(t, out.LedgerOK())
	assert.Equal(t, "%PDF", string(out.Document[:4]))
	assert.Len(t, mem.Snapshot(), 3)
}
