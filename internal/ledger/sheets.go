package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// ErrInvalidSheetURL is returned for a URL without a spreadsheet id.
var ErrInvalidSheetURL = errors.New("invalid spreadsheet url")

// SpreadsheetID extracts the id from a Google Sheets URL. A bare id is
// returned as is.
func SpreadsheetID(sheetURL string) (string, error) {
	s := strings.TrimSpace(sheetURL)
	if m := spreadsheetIDRe.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if s != "" && !strings.ContainsAny(s, "/:?") {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSheetURL, sheetURL)
}

// SheetsConfig configures the Google Sheets backend.
type SheetsConfig struct {
	SheetURL        string
	CredentialsFile string
	Worksheet       int
	ValueInput      string
	// ClientOptions are passed to the Sheets client after the credentials.
	ClientOptions []option.ClientOption
}

// SheetsBackend stores the ledger in a Google spreadsheet, authenticating
// with a service-account credential file.
type SheetsBackend struct {
	cfg           SheetsConfig
	spreadsheetID string
}

// NewSheetsBackend validates cfg. Credentials are only read on Open so a
// missing file surfaces as a ledger failure of that submission.
func NewSheetsBackend(cfg SheetsConfig) (*SheetsBackend, error) {
	id, err := SpreadsheetID(cfg.SheetURL)
	if err != nil {
		return nil, err
	}
	if cfg.ValueInput == "" {
		cfg.ValueInput = "USER_ENTERED"
	}
	return &SheetsBackend{cfg: cfg, spreadsheetID: id}, nil
}

func (b *SheetsBackend) clientOptions() ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if b.cfg.CredentialsFile != "" {
		if _, err := os.Stat(b.cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("credentials file: %w", err)
		}
		opts = append(opts,
			option.WithCredentialsFile(b.cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	return append(opts, b.cfg.ClientOptions...), nil
}

// Open authenticates and resolves the configured worksheet.
func (b *SheetsBackend) Open(ctx context.Context) (Sheet, error) {
	opts, err := b.clientOptions()
	if err != nil {
		return nil, err
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	ss, err := svc.Spreadsheets.Get(b.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", b.spreadsheetID, err)
	}
	idx := b.cfg.Worksheet
	if idx < 0 || idx >= len(ss.Sheets) || ss.Sheets[idx].Properties == nil {
		return nil, fmt.Errorf("%w: index %d", ErrNoWorksheet, idx)
	}
	url := ss.SpreadsheetUrl
	if url == "" {
		url = b.cfg.SheetURL
	}
	return &sheetsWorksheet{
		svc:        svc,
		id:         b.spreadsheetID,
		title:      quoteTitle(ss.Sheets[idx].Properties.Title),
		url:        url,
		valueInput: b.cfg.ValueInput,
	}, nil
}

type sheetsWorksheet struct {
	svc        *sheets.Service
	id         string
	title      string
	url        string
	valueInput string
}

func (w *sheetsWorksheet) Records(ctx context.Context) ([][]string, error) {
	vr, err := w.svc.Spreadsheets.Values.Get(w.id, w.title).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(vr.Values))
	for _, row := range vr.Values {
		cells := make([]string, len(row))
		for i, c := range row {
			if c != nil {
				cells[i] = fmt.Sprint(c)
			}
		}
		out = append(out, cells)
	}
	return out, nil
}

func (w *sheetsWorksheet) Clear(ctx context.Context) error {
	_, err := w.svc.Spreadsheets.Values.Clear(w.id, w.title, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *sheetsWorksheet) Write(ctx context.Context, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = make([]interface{}, len(r))
		for j, c := range r {
			values[i][j] = c
		}
	}
	_, err := w.svc.Spreadsheets.Values.
		Update(w.id, w.title+"!A1", &sheets.ValueRange{MajorDimension: "ROWS", Values: values}).
		ValueInputOption(w.valueInput).
		Context(ctx).
		Do()
	return err
}

func (w *sheetsWorksheet) URL() string { return w.url }

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
