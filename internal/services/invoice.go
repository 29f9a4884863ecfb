package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-invoice-ledger/internal/ledger"
	"github.com/diewo77/go-invoice-ledger/internal/logger"
	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Renderer turns an invoice into a printable document.
type Renderer interface {
	Render(inv *models.Invoice) ([]byte, error)
}

// Appender records an invoice in the ledger.
type Appender interface {
	Append(ctx context.Context, inv *models.Invoice) (ledger.Result, error)
}

// Outcome is the result of one submission. Document is always set when
// Submit returns a nil error; LedgerErr reports a ledger failure that did not
// prevent the document from being produced.
type Outcome struct {
	SubmissionID string
	Invoice      *models.Invoice
	Document     []byte
	FileName     string
	Ledger       ledger.Result
	LedgerErr    error
	// LedgerSkipped is set when the caller asked for the document only.
	LedgerSkipped bool
}

// LedgerOK reports whether the ledger append succeeded.
func (o *Outcome) LedgerOK() bool {
	return !o.LedgerSkipped && o.LedgerErr == nil
}

// InvoiceService runs the submission pipeline: build the invoice, render it,
// then append it to the ledger.
type InvoiceService struct {
	renderer Renderer
	ledger   Appender
	log      *zap.Logger
}

// NewInvoiceService wires the renderer and ledger. A nil ledger makes every
// Submit report a ledger error; a nil log discards output.
func NewInvoiceService(r Renderer, l Appender, log *zap.Logger) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{renderer: r, ledger: l, log: log}
}

// Submit validates and renders the submission and appends it to the ledger.
// Validation and render failures are returned as errors and nothing is
// written. A ledger failure is reported in Outcome.LedgerErr.
func (s *InvoiceService) Submit(ctx context.Context, d models.CustomerDetails, items []models.ItemInput) (*Outcome, error) {
	return s.run(ctx, d, items, true)
}

// Render validates and renders the submission without touching the ledger.
func (s *InvoiceService) Render(ctx context.Context, d models.CustomerDetails, items []models.ItemInput) (*Outcome, error) {
	return s.run(ctx, d, items, false)
}

func (s *InvoiceService) run(ctx context.Context, d models.CustomerDetails, items []models.ItemInput, record bool) (*Outcome, error) {
	id := uuid.NewString()
	log := logger.FromContextOr(ctx, s.log).With(zap.String("submission_id", id))
	ctx = logger.WithContext(ctx, log)

	inv, err := models.NewInvoice(d, items)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			log.Info("invoice rejected", zap.Strings("fields", ve.Fields()))
		}
		return nil, err
	}
	log = log.With(zap.String("customer_id", inv.CustomerID))

	doc, err := s.renderer.Render(inv)
	if err != nil {
		log.Error("invoice render failed", zap.Error(err))
		return nil, fmt.Errorf("submission %s: %w", id, err)
	}
	log.Info("invoice rendered",
		zap.Int("items", len(inv.Items)),
		zap.String("subtotal", inv.Subtotal.String()),
		zap.String("phone", logger.MaskLast4(inv.Phone)),
		zap.String("email", logger.MaskEmail(inv.Email)),
		zap.Int("bytes", len(doc)),
	)

	out := &Outcome{
		SubmissionID:  id,
		Invoice:       inv,
		Document:      doc,
		FileName:      inv.FileName(),
		LedgerSkipped: !record,
	}
	if !record {
		return out, nil
	}
	if s.ledger == nil {
		out.LedgerErr = &ledger.Error{Op: ledger.OpOpen, Err: errors.New("no ledger configured")}
		return out, nil
	}

	res, err := s.ledger.Append(ctx, inv)
	if err != nil {
		log.Warn("ledger append failed", zap.Error(err))
		out.LedgerErr = err
		return out, nil
	}
	out.Ledger = res
	return out, nil
}
