package main

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/diewo77/go-invoice-ledger/httpx"
	"github.com/diewo77/go-invoice-ledger/internal/logger"
	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/diewo77/go-invoice-ledger/internal/pdf"
	"github.com/diewo77/go-invoice-ledger/internal/services"
	"github.com/diewo77/go-invoice-ledger/view"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// User-facing ledger outcome messages.
const (
	msgLedgerOK     = "Invoice data updated in Google Sheet successfully!"
	msgLedgerFailed = "Error updating Google Sheet: "
)

// Ledger outcome headers of the raw PDF response.
const (
	headerLedgerStatus  = "X-Ledger-Status"
	headerLedgerMessage = "X-Ledger-Message"
	headerSubmissionID  = "X-Submission-Id"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	svc     *services.InvoiceService
	log     *zap.Logger
}

// NewApp creates a new application with all routes configured.
func NewApp(svc *services.InvoiceService, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		mux: http.NewServeMux(),
		svc: svc,
		log: log,
	}
	app.setupRoutes()
	app.handler = logger.Middleware(log)(app.mux)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	a.mux.HandleFunc("GET /{$}", a.invoiceForm)
	a.mux.HandleFunc("POST /invoices", a.submitInvoice)
	a.mux.HandleFunc("GET /catalog", a.catalog)
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

// invoiceForm renders the entry form with num_items item rows.
func (a *App) invoiceForm(w http.ResponseWriter, r *http.Request) {
	n, ok := parseCount(r.URL.Query().Get("num_items"))
	msg := ""
	if !ok {
		msg = models.MsgInvalidEntries
	}
	if err := view.Render(w, r, http.StatusOK, "form.html", formData(r, n, msg, nil)); err != nil {
		logger.FromContext(r.Context()).Error("render form", zap.Error(err))
	}
}

type ledgerJSON struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

type submitResponse struct {
	SubmissionID string          `json:"submission_id"`
	CustomerID   string          `json:"customer_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	FileName     string          `json:"file_name"`
	Document     []byte          `json:"document"`
	Ledger       ledgerJSON      `json:"ledger"`
}

func ledgerOutcome(out *services.Outcome) ledgerJSON {
	if out.LedgerErr != nil {
		return ledgerJSON{
			Status:  "error",
			Message: msgLedgerFailed + out.LedgerErr.Error(),
			Error:   out.LedgerErr.Error(),
		}
	}
	return ledgerJSON{Status: "ok", Message: msgLedgerOK, URL: out.Ledger.URL}
}

func (a *App) submitInvoice(w http.ResponseWriter, r *http.Request) {
	kind := httpx.Accepts(r)
	log := logger.FromContext(r.Context())

	details, items, err := parseSubmission(w, r)
	var out *services.Outcome
	if err == nil {
		out, err = a.svc.Submit(r.Context(), details, items)
	}
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			a.validationFailed(w, r, kind, ve, len(items))
			return
		}
		log.Error("invoice submission failed", zap.Error(err))
		if kind == httpx.KindHTML {
			http.Error(w, "could not generate the invoice", http.StatusInternalServerError)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", "could not generate the invoice", nil)
		return
	}

	lj := ledgerOutcome(out)
	switch kind {
	case httpx.KindJSON:
		httpx.JSON(w, http.StatusOK, submitResponse{
			SubmissionID: out.SubmissionID,
			CustomerID:   out.Invoice.CustomerID,
			Subtotal:     out.Invoice.Subtotal,
			FileName:     out.FileName,
			Document:     out.Document,
			Ledger:       lj,
		})
	case httpx.KindPDF:
		w.Header().Set(headerLedgerStatus, lj.Status)
		w.Header().Set(headerLedgerMessage, headerSafe(lj.Message))
		w.Header().Set(headerSubmissionID, out.SubmissionID)
		if err := httpx.PDF(w, out.FileName, out.Document); err != nil {
			log.Warn("write pdf", zap.Error(err))
		}
	default:
		data := map[string]any{
			"Table":       pdf.TableRows(out.Invoice),
			"Subtotal":    out.Invoice.Subtotal,
			"FileName":    out.FileName,
			"DownloadURL": template.URL("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(out.Document)),
			"LedgerOK":    out.LedgerOK(),
			"LedgerURL":   out.Ledger.URL,
			"LedgerError": "",
		}
		if out.LedgerErr != nil {
			data["LedgerError"] = out.LedgerErr.Error()
		}
		if err := view.Render(w, r, http.StatusOK, "result.html", data); err != nil {
			log.Error("render result", zap.Error(err))
		}
	}
}

func (a *App) validationFailed(w http.ResponseWriter, r *http.Request, kind string, ve *models.ValidationError, n int) {
	if kind != httpx.KindHTML {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", ve.Message, ve.Violations)
		return
	}
	if err := view.Render(w, r, http.StatusUnprocessableEntity, "form.html", formData(r, n, ve.Message, ve.Violations)); err != nil {
		logger.FromContext(r.Context()).Error("render form", zap.Error(err))
	}
}

func (a *App) catalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":         models.Catalog,
		"payment_modes": models.PaymentModes,
	})
}

// headerSafe flattens a message to a single header line.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
