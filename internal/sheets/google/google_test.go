package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"

	ports "moneyx/internal/sheets"
)

// fakeSheets records the Sheets API calls it receives.
type fakeSheets struct {
	mu     sync.Mutex
	calls  []string
	bodies []string
	values [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, ":append"):
		json.NewEncoder(w).Encode(map[string]any{
			"updates": map[string]any{"updatedRange": "'2025 Transactions'!A7:G7"},
		})
	case strings.HasSuffix(r.URL.Path, ":clear"):
		json.NewEncoder(w).Encode(map[string]any{"clearedRange": "'2025 Transactions'!A7:G7"})
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"values": f.values})
	default:
		json.NewEncoder(w).Encode(map[string]any{})
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), "sheet-id", "Transactions", nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func sampleRow() ports.Row {
	return ports.Row{
		TransactionID: "txn-1",
		Date:          time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		Description:   "Groceries",
		Category:      "Food",
		Account:       "Checking",
		Amount:        decimal.RequireFromString("-42.5"),
		Type:          "expense",
	}
}

func TestClient_Append(t *testing.T) {
	f := &fakeSheets{}
	c := newTestClient(t, f)

	ref, err := c.Append(context.Background(), sampleRow())
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "'2025 Transactions'!A7:G7" {
		t.Errorf("ref = %q", ref)
	}
	if len(f.calls) != 1 || !strings.Contains(f.calls[0], "2025 Transactions!A:G:append") {
		t.Fatalf("calls = %v", f.calls)
	}
	for _, want := range []string{"2025-05-03", "Groceries", "-42.50", "txn-1"} {
		if !strings.Contains(f.bodies[0], want) {
			t.Errorf("request body missing %q: %s", want, f.bodies[0])
		}
	}
}

func TestClient_AppendValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	_, err := c.Append(context.Background(), ports.Row{Date: time.Now()})
	if !errors.Is(err, ports.ErrMissingID) {
		t.Errorf("expected ErrMissingID, got: %v", err)
	}
	if _, err := c.Append(context.Background(), sampleRow()); err == nil {
		t.Error("expected error without a service")
	}
}

func TestClient_DeleteRow(t *testing.T) {
	f := &fakeSheets{}
	c := newTestClient(t, f)

	if err := c.DeleteRow(context.Background(), "'2025 Transactions'!A7:G7"); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	if len(f.calls) != 1 || !strings.HasSuffix(f.calls[0], ":clear") {
		t.Errorf("calls = %v", f.calls)
	}
	if err := c.DeleteRow(context.Background(), "mem:1"); !errors.Is(err, ports.ErrUnknownRef) {
		t.Errorf("expected ErrUnknownRef, got %v", err)
	}
}

func TestClient_ListTransactions(t *testing.T) {
	f := &fakeSheets{values: [][]any{
		Header,
		{"2025-05-03", "Groceries", "Food", "Checking", "-42.50", "expense", "txn-1"},
		{"2025-04-30", "Rent", "Housing", "Checking", "-900", "expense", "txn-2"},
		{},
		{"2025-05-09", "Salary", "Income", "Checking", "3000", "income", "txn-3"},
		{"not a date", "x", "y", "z", "1", "expense", "txn-4"},
	}}
	c := newTestClient(t, f)

	rows, err := c.ListTransactions(context.Background(), 2025, 5)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(rows) != 2 || rows[0].TransactionID != "txn-1" || rows[1].TransactionID != "txn-3" {
		t.Fatalf("rows = %+v", rows)
	}
	if !rows[0].Amount.Equal(decimal.RequireFromString("-42.5")) {
		t.Errorf("amount = %s", rows[0].Amount)
	}

	if _, err := c.ListTransactions(context.Background(), 2025, 0); err == nil {
		t.Error("expected invalid month error")
	}
}

func TestClient_EnsureHeader(t *testing.T) {
	f := &fakeSheets{}
	c := newTestClient(t, f)
	if err := c.EnsureHeader(context.Background(), 2025); err != nil {
		t.Fatalf("EnsureHeader() error = %v", err)
	}
	if len(f.calls) != 2 || !strings.HasPrefix(f.calls[1], http.MethodPut) {
		t.Fatalf("calls = %v", f.calls)
	}

	f2 := &fakeSheets{values: [][]any{Header}}
	c2 := newTestClient(t, f2)
	if err := c2.EnsureHeader(context.Background(), 2025); err != nil {
		t.Fatal(err)
	}
	if len(f2.calls) != 1 {
		t.Errorf("header present, expected no write: %v", f2.calls)
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), "  ", "", nil); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestCredentialsOption(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := CredentialsOption(Credentials{}); err == nil {
		t.Error("expected error without credentials")
	}
	if opt, err := CredentialsOption(Credentials{JSON: `{"type":"service_account"}`}); err != nil || opt == nil {
		t.Errorf("inline json: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := CredentialsOption(Credentials{File: path}); err != nil {
		t.Errorf("file credentials: %v", err)
	}
	if _, err := CredentialsOption(Credentials{File: path + ".missing"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Transactions", 2025, "2025 Transactions"},
		{"2024 Transactions", 2025, "2024 Transactions"},
		{"  Spending ", 2026, "2026 Spending"},
		{"", 2025, ""},
		{"12345 Sheet", 2025, "2025 12345 Sheet"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}
