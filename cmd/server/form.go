package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/diewo77/go-invoice-ledger/validation"
	"github.com/shopspring/decimal"
)

// maxItems caps the number of item rows one submission may carry.
const maxItems = 200

// submissionJSON is the JSON body accepted by POST /invoices.
type submissionJSON struct {
	Name        string             `json:"name"`
	Phone       string             `json:"phno"`
	Email       string             `json:"email"`
	Address     string             `json:"ad"`
	Date        string             `json:"date"`
	PaymentMode string             `json:"mop"`
	Items       []models.ItemInput `json:"items"`
}

// parseSubmission reads customer details and item rows from a form post or
// a JSON body. Malformed values are reported as a ValidationError.
func parseSubmission(w http.ResponseWriter, r *http.Request) (models.CustomerDetails, []models.ItemInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return parseJSON(w, r)
	}
	return parseForm(r)
}

func parseJSON(w http.ResponseWriter, r *http.Request) (models.CustomerDetails, []models.ItemInput, error) {
	var body submissionJSON
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return models.CustomerDetails{}, nil, &models.ValidationError{
			Message:    models.MsgInvalidEntries,
			Violations: validation.Violations{"body": "invalid_json"},
		}
	}
	v := make(validation.Violations)
	d := models.CustomerDetails{
		Name:           body.Name,
		Phone:          body.Phone,
		Email:          body.Email,
		BillingAddress: body.Address,
		PaymentMode:    models.PaymentMode(body.PaymentMode),
		InvoiceDate:    parseDate(body.Date, v),
	}
	if len(body.Items) > maxItems {
		v["items"] = "too_many"
	}
	if !v.Empty() {
		return d, nil, parseFailure(d, len(body.Items), v)
	}
	return d, body.Items, nil
}

func parseForm(r *http.Request) (models.CustomerDetails, []models.ItemInput, error) {
	if err := r.ParseForm(); err != nil {
		return models.CustomerDetails{}, nil, &models.ValidationError{
			Message:    models.MsgInvalidEntries,
			Violations: validation.Violations{"body": "invalid_form"},
		}
	}
	v := make(validation.Violations)
	d := models.CustomerDetails{
		Name:           r.PostFormValue("name"),
		Phone:          r.PostFormValue("phno"),
		Email:          r.PostFormValue("email"),
		BillingAddress: r.PostFormValue("ad"),
		PaymentMode:    models.PaymentMode(r.PostFormValue("mop")),
		InvoiceDate:    parseDate(r.PostFormValue("date"), v),
	}
	n, ok := parseCount(r.PostFormValue("num_items"))
	if !ok {
		v["num_items"] = "invalid_number"
	}
	items := make([]models.ItemInput, 0, n)
	for i := 0; i < n; i++ {
		price := decimal.Zero
		if raw := strings.TrimSpace(r.PostFormValue(fmt.Sprintf("price_%d", i))); raw != "" {
			p, err := decimal.NewFromString(raw)
			if err != nil {
				v[fmt.Sprintf("price_%d", i)] = "invalid_number"
			}
			price = p
		}
		qty := 0
		if raw := strings.TrimSpace(r.PostFormValue(fmt.Sprintf("quant_%d", i))); raw != "" {
			q, err := strconv.Atoi(raw)
			if err != nil {
				v[fmt.Sprintf("quant_%d", i)] = "invalid_number"
			}
			qty = q
		}
		items = append(items, models.ItemInput{
			Name:      r.PostFormValue(fmt.Sprintf("item_%d", i)),
			UnitPrice: price,
			Quantity:  qty,
		})
	}
	if !v.Empty() {
		return d, items, parseFailure(d, n, v)
	}
	return d, items, nil
}

// parseFailure reports malformed values. Missing required fields take
// precedence over the invalid-entries message.
func parseFailure(d models.CustomerDetails, n int, v validation.Violations) error {
	req := models.RequiredViolations(d, n)
	if req.Empty() {
		return &models.ValidationError{Message: models.MsgInvalidEntries, Violations: v}
	}
	req.Merge(v)
	return &models.ValidationError{Message: models.MsgRequiredFields, Violations: req}
}

// parseCount parses the num_items field. Empty means zero.
func parseCount(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > maxItems {
		return 0, false
	}
	return n, true
}

// parseDate accepts an empty value (today) or a YYYY-MM-DD date.
func parseDate(raw string, v validation.Violations) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		v["date"] = "invalid_date"
		return time.Time{}
	}
	return t
}

// formRow is one item row of the form.
type formRow struct {
	Index    int
	Number   int
	Name     string
	Price    string
	Quantity string
}

// formData builds the template data for the form, keeping posted values.
func formData(r *http.Request, n int, errMsg string, violations validation.Violations) map[string]any {
	get := func(k string) string {
		if r.Method == http.MethodPost {
			return r.PostFormValue(k)
		}
		return r.URL.Query().Get(k)
	}
	values := map[string]string{}
	for _, k := range []string{"name", "phno", "email", "ad", "mop", "date"} {
		values[k] = get(k)
	}
	if values["mop"] == "" {
		values["mop"] = string(models.PaymentCash)
	}
	if values["date"] == "" {
		values["date"] = time.Now().Format(models.DateLayout)
	}
	rows := make([]formRow, n)
	for i := range rows {
		rows[i] = formRow{
			Index:    i,
			Number:   i + 1,
			Name:     get(fmt.Sprintf("item_%d", i)),
			Price:    get(fmt.Sprintf("price_%d", i)),
			Quantity: get(fmt.Sprintf("quant_%d", i)),
		}
	}
	return map[string]any{
		"NumItems":     n,
		"Rows":         rows,
		"Values":       values,
		"Catalog":      models.Catalog,
		"PaymentModes": models.PaymentModes,
		"Error":        errMsg,
		"Violations":   violations,
	}
}
