// Package pdf renders invoices as paginated PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// Letterhead is the seller block printed under the invoice metadata.
type Letterhead struct {
	Name    string
	Address []string
}

// DefaultLetterhead is the seller printed when no override is configured.
var DefaultLetterhead = Letterhead{
	Name: "Transtag Lifecycle pvt. ltd.",
	Address: []string{
		"A-105, RIDGEWOOD ESTATE",
		"DLF PHASE IV",
		"GURGAON - 122001",
		"Haryana",
	},
}

type rgb struct{ R, G, B int }

var (
	colorBlack      = rgb{0, 0, 0}
	colorBlue       = rgb{0, 0, 255}
	colorGray       = rgb{128, 128, 128}
	colorDarkBlue   = rgb{0, 0, 139}
	colorWhiteSmoke = rgb{245, 245, 245}
	colorBeige      = rgb{245, 245, 220}
)

// Style holds the layout parameters. All sizes are in points.
type Style struct {
	FontFamily  string
	Margin      float64
	TitleSize   float64
	HeadingSize float64
	BodySize    float64
	ColumnWidth float64
	RowHeight   float64
	Compress    bool
}

// DefaultStyle matches the printed invoices: Letter page, one inch margins,
// four 100pt table columns.
var DefaultStyle = Style{
	FontFamily:  "Helvetica",
	Margin:      72,
	TitleSize:   24,
	HeadingSize: 14,
	BodySize:    10,
	ColumnWidth: 100,
	RowHeight:   20,
	Compress:    true,
}

func (s Style) validate() error {
	if strings.TrimSpace(s.FontFamily) == "" {
		return fmt.Errorf("font family is empty")
	}
	for name, v := range map[string]float64{
		"margin": s.Margin, "title size": s.TitleSize, "heading size": s.HeadingSize,
		"body size": s.BodySize, "column width": s.ColumnWidth, "row height": s.RowHeight,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	return nil
}

// RenderError wraps any failure while laying out or serializing a document.
// It signals a defect, not bad input, and is never recovered by the pipeline.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render invoice: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer produces invoice documents in memory.
type Renderer struct {
	letterhead Letterhead
	style      Style
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithLetterhead overrides the seller block.
func WithLetterhead(l Letterhead) Option {
	return func(r *Renderer) { r.letterhead = l }
}

// WithStyle replaces the layout parameters.
func WithStyle(s Style) Option {
	return func(r *Renderer) { r.style = s }
}

// WithFont changes only the font family.
func WithFont(family string) Option {
	return func(r *Renderer) { r.style.FontFamily = family }
}

// NewRenderer returns a Renderer using DefaultLetterhead and DefaultStyle
// with opts applied in order.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{letterhead: DefaultLetterhead, style: DefaultStyle}
	for _, o := range opts {
		o(r)
	}
	return r
}

// TableHeader is the first row of the itemized table.
var TableHeader = []string{"Item", "Price", "Quantity", "Total"}

// TableRows returns the itemized table exactly as printed, header first.
func TableRows(inv *models.Invoice) [][]string {
	rows := make([][]string, 0, len(inv.Items)+1)
	rows = append(rows, TableHeader)
	for _, it := range inv.Items {
		rows = append(rows, []string{
			it.Name,
			it.UnitPrice.String(),
			strconv.Itoa(it.Quantity),
			it.LineTotal.String(),
		})
	}
	return rows
}

// Render lays out inv and returns the serialized PDF.
func (r *Renderer) Render(inv *models.Invoice) ([]byte, error) {
	doc, err := r.build(inv)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(inv *models.Invoice) (*gofpdf.Fpdf, error) {
	if inv == nil {
		return nil, &RenderError{Err: fmt.Errorf("nil invoice")}
	}
	if err := r.style.validate(); err != nil {
		return nil, &RenderError{Err: err}
	}
	s := r.style
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(s.Compress)
	doc.SetMargins(s.Margin, s.Margin, s.Margin)
	doc.SetAutoPageBreak(true, s.Margin)
	doc.SetTitle("Invoice "+inv.CustomerID, true)
	doc.SetCreator("go-invoice-ledger", true)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	w := &writer{doc: doc, tr: tr, style: s}

	w.paragraph("Invoice", "B", s.TitleSize, colorBlue, "C", 10)
	w.paragraph("Customer ID: "+inv.CustomerID, "", s.BodySize, colorBlack, "L", 0)
	w.paragraph("Invoice Date: "+inv.FormattedDate(), "", s.BodySize, colorBlack, "L", 0)

	w.paragraph(r.letterhead.Name, "B", s.HeadingSize, colorBlack, "L", 5)
	for _, line := range r.letterhead.Address {
		w.paragraph(line, "", s.BodySize, colorBlack, "L", 0)
	}
	w.paragraph(strings.Repeat("-", 60), "", 12, colorGray, "L", 5)

	w.paragraph("Bill To", "B", s.HeadingSize, colorBlack, "L", 5)
	w.paragraph("Name: "+inv.CustomerName, "", s.BodySize, colorBlack, "L", 0)
	w.paragraph("Phone Number: "+inv.Phone, "", s.BodySize, colorBlack, "L", 0)
	w.paragraph("Billing Address: "+inv.BillingAddress, "", s.BodySize, colorBlack, "L", 0)
	w.paragraph("Mode of Payment: "+string(inv.PaymentMode), "", s.BodySize, colorBlack, "L", 6)

	w.table(TableRows(inv))

	doc.Ln(6)
	w.paragraph("Subtotal = "+inv.Subtotal.String(), "B", s.HeadingSize, colorBlack, "L", 5)
	w.paragraph("Thank You", "B", s.HeadingSize, colorDarkBlue, "L", 10)

	if doc.Err() {
		return nil, &RenderError{Err: doc.Error()}
	}
	return doc, nil
}

type writer struct {
	doc   *gofpdf.Fpdf
	tr    func(string) string
	style Style
}

// paragraph writes a block of text that wraps at the right margin and flows
// onto the next page when needed.
func (w *writer) paragraph(text, fontStyle string, size float64, c rgb, align string, spaceAfter float64) {
	w.doc.SetFont(w.style.FontFamily, fontStyle, size)
	w.doc.SetTextColor(c.R, c.G, c.B)
	w.doc.MultiCell(0, size*1.2, w.tr(text), "", align, false)
	if spaceAfter > 0 {
		w.doc.Ln(spaceAfter)
	}
}

func (w *writer) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	_, pageH := w.doc.GetPageSize()
	limit := pageH - w.style.Margin
	h := w.style.RowHeight

	w.doc.SetDrawColor(colorBlack.R, colorBlack.G, colorBlack.B)
	w.doc.SetLineWidth(1)
	w.row(rows[0], true)
	for _, row := range rows[1:] {
		if w.doc.GetY()+h > limit {
			w.doc.AddPage()
			w.row(rows[0], true)
		}
		w.row(row, false)
	}
}

func (w *writer) row(cells []string, header bool) {
	if header {
		w.doc.SetFont(w.style.FontFamily, "B", w.style.BodySize)
		w.doc.SetFillColor(colorGray.R, colorGray.G, colorGray.B)
		w.doc.SetTextColor(colorWhiteSmoke.R, colorWhiteSmoke.G, colorWhiteSmoke.B)
	} else {
		w.doc.SetFont(w.style.FontFamily, "", w.style.BodySize)
		w.doc.SetFillColor(colorBeige.R, colorBeige.G, colorBeige.B)
		w.doc.SetTextColor(colorBlack.R, colorBlack.G, colorBlack.B)
	}
	for i, c := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		w.doc.CellFormat(w.style.ColumnWidth, w.style.RowHeight, w.tr(c), "1", ln, "CM", true, 0, "")
	}
}
