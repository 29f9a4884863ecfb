package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"https://docs.google.com/spreadsheets/d/1whMQ8VX585ea-1_gdVi3I41bP1tHFtwYcJ0hTaDfvyM/edit?usp=sharing", "1whMQ8VX585ea-1_gdVi3I41bP1tHFtwYcJ0hTaDfvyM", true},
		{"abc_DEF-123", "abc_DEF-123", true},
		{"https://example.com/nope", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := SpreadsheetID(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.ErrorIs(t, err, ErrInvalidSheetURL, tt.in)
		}
	}
}

// fakeSheetsAPI serves the few Sheets v4 endpoints the backend calls.
type fakeSheetsAPI struct {
	mu         sync.Mutex
	values     [][]interface{}
	cleared    bool
	valueInput string
	failGet    bool
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/v4/spreadsheets/SHEET"):
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"spreadsheetId":  "SHEET",
			"spreadsheetUrl": "https://docs.google.com/spreadsheets/d/SHEET/edit",
			"sheets": []map[string]interface{}{
				{"properties": map[string]interface{}{"sheetId": 0, "title": "Sheet1"}},
			},
		})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.cleared = true
		f.values = nil
		_, _ = io.WriteString(w, `{"spreadsheetId":"SHEET"}`)
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		if f.failGet {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":{"code":403,"message":"denied"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          "Sheet1!A1:F10",
			"majorDimension": "ROWS",
			"values":         f.values,
		})
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.values = body.Values
		f.valueInput = r.URL.Query().Get("valueInputOption")
		_, _ = io.WriteString(w, `{"spreadsheetId":"SHEET"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"not found"}}`)
	}
}

func newTestSheets(t *testing.T, api *fakeSheetsAPI) *SheetsBackend {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	b, err := NewSheetsBackend(SheetsConfig{
		SheetURL: "https://docs.google.com/spreadsheets/d/SHEET/edit",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithoutAuthentication(),
			option.WithHTTPClient(srv.Client()),
		},
	})
	require.NoError(t, err)
	return b
}

func TestSheetsBackendAppend(t *testing.T) {
	api := &fakeSheetsAPI{values: [][]interface{}{
		{"Customer Id", "Name", "Email ID", "Invoice Date", "Item", "Quantity"},
		{"INV_0001", "Old", "o@x.com", "2023-12-01", "Eggs", float64(12)},
	}}
	res, err := New(newTestSheets(t, api)).Append(context.Background(), testInvoice(t))
	require.NoError(t, err)

	assert.True(t, api.cleared)
	assert.Equal(t, "USER_ENTERED", api.valueInput)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/SHEET/edit", res.URL)
	require.Len(t, api.values, 4)
	assert.Equal(t, []interface{}{"INV_0001", "Old", "o@x.com", "2023-12-01", "Eggs", "12"}, api.values[1])
	assert.Equal(t, []interface{}{"INV_7776", "Asha", "a@x.com", "2024-01-10", "Bread", "2"}, api.values[3])
}

func TestSheetsBackendReadFailureLeavesSheet(t *testing.T) {
	api := &fakeSheetsAPI{failGet: true, values: [][]interface{}{{"Customer Id"}}}
	_, err := New(newTestSheets(t, api)).Append(context.Background(), testInvoice(t))
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, OpRead, le.Op)
	assert.False(t, api.cleared)
}

func TestSheetsBackendMissingCredentials(t *testing.T) {
	b, err := NewSheetsBackend(SheetsConfig{
		SheetURL:        "SHEET",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.NoError(t, err)
	_, err = New(b).Append(context.Background(), testInvoice(t))
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, OpOpen, le.Op)
}

func TestSheetsBackendWorksheetIndex(t *testing.T) {
	b := newTestSheets(t, &fakeSheetsAPI{})
	b.cfg.Worksheet = 3
	_, err := b.Open(context.Background())
	assert.ErrorIs(t, err, ErrNoWorksheet)
}

func TestQuoteTitle(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteTitle("Sheet1"))
	assert.Equal(t, "'Bob''s'", quoteTitle("Bob's"))
}
