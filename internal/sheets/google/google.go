// Package google mirrors ledger transactions into a Google Sheets
// spreadsheet, one sheet per year.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"moneyx/internal/log"
	ports "moneyx/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var (
	_ ports.Exporter          = (*Client)(nil)
	_ ports.TransactionLister = (*Client)(nil)
)

// Header is written as the first row of every yearly sheet.
var Header = []any{"Date", "Description", "Category", "Account", "Amount", "Type", "Transaction ID"}

const dateLayout = "2006-01-02"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// base sheet name without year, e.g. "Transactions"; the row's year is
	// prefixed when writing.
	sheetBase string
	logger    *log.Logger
}

// Credentials locates service account credentials. JSON wins over File.
type Credentials struct {
	JSON string
	File string
}

// New creates a client for spreadsheetID. Extra options are passed to the
// Sheets service, which is how tests point it at a fake endpoint.
func New(ctx context.Context, spreadsheetID, sheetBase string, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Transactions"
	}
	if logger == nil {
		logger = log.Discard()
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     strings.TrimSpace(sheetBase),
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// CredentialsOption turns service account credentials into a client option.
// Without explicit credentials GOOGLE_APPLICATION_CREDENTIALS is used.
func CredentialsOption(c Credentials) (goption.ClientOption, error) {
	raw := strings.TrimSpace(c.JSON)
	file := strings.TrimSpace(c.File)
	if raw == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case raw != "":
		credentialsJSON = []byte(raw)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	return goption.WithCredentialsJSON(credentialsJSON), nil
}

// Append writes r at the end of the sheet for r's year and returns the
// updated range.
func (c *Client) Append(ctx context.Context, r ports.Row) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheet := yearPrefixedName(c.sheetBase, r.Date.Year())
	rng := fmt.Sprintf("%s!A:G", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		r.Date.Format(dateLayout),
		r.Description,
		r.Category,
		r.Account,
		r.Amount.StringFixed(2),
		r.Type,
		r.TransactionID,
	}}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.DebugContext(ctx, "Row appended",
		log.FieldTransactionID, r.TransactionID,
		log.FieldSheetsRef, ref)
	return ref, nil
}

// DeleteRow clears the cells of a row written by Append. The row itself
// stays so later references remain valid.
func (c *Client) DeleteRow(ctx context.Context, ref string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if !strings.Contains(ref, "!") {
		return fmt.Errorf("%w: %s", ports.ErrUnknownRef, ref)
	}
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, ref, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", ref, err)
	}
	return nil
}

// ListTransactions reads the month's rows from the sheet of that year.
func (c *Client) ListTransactions(ctx context.Context, year int, month int) ([]ports.Row, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	rng := fmt.Sprintf("%s!A:G", yearPrefixedName(c.sheetBase, year))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []ports.Row
	for _, r := range parseRows(resp.Values) {
		if r.Date.Year() == year && int(r.Date.Month()) == month {
			out = append(out, r)
		}
	}
	return out, nil
}

// EnsureHeader writes Header into the first row of the year's sheet when
// that row is empty.
func (c *Client) EnsureHeader(ctx context.Context, year int) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:G1", yearPrefixedName(c.sheetBase, year))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{Header}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header %s: %w", rng, err)
	}
	return nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{dateLayout, "2006/01/02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
