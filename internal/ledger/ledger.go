// Package ledger appends invoice line items to a tabular ledger.
//
// A Backend opens a Worksheet. Appending reads every existing record, merges
// the new rows after them, clears the worksheet and writes the whole table
// back from the first cell. Worksheets that can append natively implement
// RowAppender and skip the read-clear-write cycle.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/logger"
	"github.com/diewo77/go-invoice-ledger/internal/models"
	"go.uber.org/zap"
)

// Column names of the ledger, in write order.
const (
	ColCustomerID  = "Customer Id"
	ColName        = "Name"
	ColEmail       = "Email ID"
	ColInvoiceDate = "Invoice Date"
	ColItem        = "Item"
	ColQuantity    = "Quantity"
)

// Columns is the header written for new ledgers.
var Columns = []string{ColCustomerID, ColName, ColEmail, ColInvoiceDate, ColItem, ColQuantity}

// DefaultTimeout bounds one append when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Op names the step of an append that failed.
type Op string

const (
	OpOpen   Op = "open"
	OpRead   Op = "read"
	OpClear  Op = "clear"
	OpWrite  Op = "write"
	OpAppend Op = "append"
)

// Error reports a failed ledger step. The ledger is left as the failed step
// left it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNoWorksheet is returned when the configured worksheet index does not exist.
var ErrNoWorksheet = errors.New("worksheet not found")

// ErrUnsupportedSheet is returned when an opened sheet can neither append
// rows nor be rewritten.
var ErrUnsupportedSheet = errors.New("sheet supports neither append nor rewrite")

// Backend opens the ledger resource.
type Backend interface {
	Open(ctx context.Context) (Sheet, error)
}

// Sheet is an opened ledger. It must also implement RowAppender or Worksheet.
type Sheet interface {
	URL() string
}

// Worksheet is a sheet updated by rewriting it whole. Records returns every
// row including the header row, Write replaces the content starting at the
// first cell.
type Worksheet interface {
	Sheet
	Records(ctx context.Context) ([][]string, error)
	Clear(ctx context.Context) error
	Write(ctx context.Context, rows [][]string) error
}

// RowAppender is a sheet that appends rows without rewriting the table.
type RowAppender interface {
	Sheet
	AppendRows(ctx context.Context, rows []models.LedgerRow) error
}

// Result describes a successful append.
type Result struct {
	URL          string `json:"url"`
	RowsAppended int    `json:"rows_appended"`
	Native       bool   `json:"-"`
}

// Ledger serializes appends to one backend.
type Ledger struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger
	mu      sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithTimeout bounds each append. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a Ledger writing to backend.
func New(backend Backend, opts ...Option) *Ledger {
	l := &Ledger{backend: backend, timeout: DefaultTimeout, log: zap.NewNop()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Append writes one ledger row per line item of inv after the existing rows.
func (l *Ledger) Append(ctx context.Context, inv *models.Invoice) (Result, error) {
	if inv == nil {
		return Result{}, &Error{Op: OpAppend, Err: errors.New("nil invoice")}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	log := logger.FromContextOr(ctx, l.log).With(zap.String("customer_id", inv.CustomerID))

	sheet, err := l.backend.Open(ctx)
	if err != nil {
		return Result{}, wrap(OpOpen, err)
	}
	rows := inv.LedgerRows()

	switch ws := sheet.(type) {
	case RowAppender:
		if err := ws.AppendRows(ctx, rows); err != nil {
			return Result{}, wrap(OpAppend, err)
		}
		log.Info("ledger rows appended", zap.Int("rows", len(rows)), zap.Bool("native", true))
		return Result{URL: ws.URL(), RowsAppended: len(rows), Native: true}, nil
	case Worksheet:
		return l.rewrite(ctx, log, ws, rows)
	default:
		return Result{}, &Error{Op: OpOpen, Err: ErrUnsupportedSheet}
	}
}

// rewrite appends rows by reading the whole table and writing it back.
func (l *Ledger) rewrite(ctx context.Context, log *zap.Logger, ws Worksheet, rows []models.LedgerRow) (Result, error) {
	records, err := ws.Records(ctx)
	if err != nil {
		return Result{}, wrap(OpRead, err)
	}
	merged := TableFromRecords(records).Concat(NewTable(rows))
	if err := ws.Clear(ctx); err != nil {
		return Result{}, wrap(OpClear, err)
	}
	if err := ws.Write(ctx, merged.Values()); err != nil {
		return Result{}, wrap(OpWrite, err)
	}
	log.Info("ledger rows appended",
		zap.Int("rows", len(rows)),
		zap.Int("total_rows", len(merged.Rows)),
	)
	return Result{URL: ws.URL(), RowsAppended: len(rows)}, nil
}

func wrap(op Op, err error) error {
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	return &Error{Op: op, Err: err}
}

// Table is a header plus rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds the table of new ledger rows.
func NewTable(rows []models.LedgerRow) Table {
	t := Table{Header: append([]string(nil), Columns...), Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CustomerID,
			r.CustomerName,
			r.Email,
			r.InvoiceDate,
			r.ItemName,
			strconv.Itoa(r.Quantity),
		})
	}
	return t
}

// TableFromRecords treats the first record as the header. Short rows are
// padded with blanks; cells beyond the header are dropped.
func TableFromRecords(records [][]string) Table {
	if len(records) == 0 {
		return Table{}
	}
	t := Table{Header: append([]string(nil), records[0]...)}
	for _, rec := range records[1:] {
		row := make([]string, len(t.Header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Concat returns t's rows followed by other's rows. Columns of t come first,
// columns only other has are appended. Missing cells are blank.
func (t Table) Concat(other Table) Table {
	header := append([]string(nil), t.Header...)
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, h := range other.Header {
		if _, ok := index[h]; !ok {
			index[h] = len(header)
			header = append(header, h)
		}
	}

	out := Table{Header: header, Rows: make([][]string, 0, len(t.Rows)+len(other.Rows))}
	for _, r := range t.Rows {
		row := make([]string, len(header))
		copy(row, r)
		out.Rows = append(out.Rows, row)
	}
	for _, r := range other.Rows {
		row := make([]string, len(header))
		for i, h := range other.Header {
			if i < len(r) {
				row[index[h]] = r[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Values returns the header followed by the rows.
func (t Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}
