package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2025, 1, 1),
		Description: "Groceries",
		Amount:      decimal.NewFromInt(-40),
		CategoryID:  "cat-1",
		AccountID:   "acc-1",
		Type:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	mutate := func(f func(*Transaction)) Transaction {
		tx := good
		f(&tx)
		return tx
	}
	bads := []Transaction{
		mutate(func(tx *Transaction) { tx.Date = time.Time{} }),
		mutate(func(tx *Transaction) { tx.Description = "  " }),
		mutate(func(tx *Transaction) { tx.Description = strings.Repeat("x", 201) }),
		mutate(func(tx *Transaction) { tx.Type = "refund" }),
		mutate(func(tx *Transaction) { tx.Amount = decimal.Zero }),
		mutate(func(tx *Transaction) { tx.Fee = decimal.NewFromInt(-1) }),
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionPosting(t *testing.T) {
	cases := []struct {
		typ        TransactionType
		transferID string
		amount     int64
		want       int64
	}{
		{Income, "", 100, 100},
		{Expense, "", -40, -40},
		{Expense, "", 40, -40},
		{Transfer, "", -105, 0},
		{Transfer, "tr-1", -105, -105},
		{Transfer, "tr-1", 100, 100},
	}
	for _, tc := range cases {
		tx := Transaction{Type: tc.typ, TransferID: tc.transferID, Amount: decimal.NewFromInt(tc.amount)}
		if got := tx.Posting(); !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Errorf("%s %d: got %s want %d", tc.typ, tc.amount, got, tc.want)
		}
	}
}

func TestCategoryBillGoalBudgetValidate(t *testing.T) {
	cases := []struct {
		name string
		v    interface{ Validate() error }
		ok   bool
	}{
		{"category ok", Category{Name: "Food", Type: Expense}, true},
		{"category transfer type", Category{Name: "Transfer", Type: Transfer}, false},
		{"category empty", Category{Type: Income}, false},
		{"category hex color", Category{Name: "Food", Type: Expense, Color: "#CBD5E1"}, true},
		{"category named color", Category{Name: "Food", Type: Expense, Color: "red"}, false},
		{"bill ok", Bill{Name: "Rent", Amount: decimal.NewFromInt(1200), DueDate: NewDate(2025, 2, 1), Period: Monthly}, true},
		{"bill zero amount", Bill{Name: "Rent", DueDate: NewDate(2025, 2, 1)}, false},
		{"bill bad period", Bill{Name: "Rent", Amount: decimal.NewFromInt(1), DueDate: NewDate(2025, 2, 1), Period: "hourly"}, false},
		{"bill no date", Bill{Name: "Rent", Amount: decimal.NewFromInt(1)}, false},
		{"goal ok", SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(1000)}, true},
		{"goal no target", SavingsGoal{Name: "Trip"}, false},
		{"budget ok", Budget{Month: 12, Year: 2025}, true},
		{"budget month 13", Budget{Month: 13, Year: 2025}, false},
		{"budget negative allocation", Budget{Month: 1, Year: 2025, Categories: []BudgetCategory{{CategoryID: "c", Allocated: decimal.NewFromInt(-1)}}}, false},
		{"account ok", Account{Name: "Main", Type: Checking}, true},
		{"account bad type", Account{Name: "Main", Type: "Loan"}, false},
		{"account bad color", Account{Name: "Main", Type: Checking, Color: "#12"}, false},
		{"goal bad color", SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(1), Color: "blue"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.v.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBudgetTotalAllocated(t *testing.T) {
	b := Budget{Month: 1, Year: 2025, Categories: []BudgetCategory{
		{CategoryID: "a", Allocated: decimal.RequireFromString("100.50")},
		{CategoryID: "b", Allocated: decimal.RequireFromString("49.50")},
	}}
	if got := b.TotalAllocated(); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("got %s", got)
	}
}

func TestDaysBetween(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, loc)
	cases := []struct {
		due  time.Time
		want int
	}{
		{time.Date(2025, 3, 10, 0, 0, 0, 0, loc), 0},
		{time.Date(2025, 3, 11, 0, 5, 0, 0, loc), 1},
		{time.Date(2025, 3, 17, 12, 0, 0, 0, loc), 7},
		{time.Date(2025, 3, 8, 12, 0, 0, 0, loc), -2},
		{time.Date(2025, 4, 10, 0, 0, 0, 0, loc), 31},
	}
	for _, tc := range cases {
		if got := DaysBetween(now, tc.due); got != tc.want {
			t.Errorf("DaysBetween(%v) = %d, want %d", tc.due, got, tc.want)
		}
	}
}

func TestPreviousMonth(t *testing.T) {
	if m, y := PreviousMonth(1, 2025); m != 12 || y != 2024 {
		t.Fatalf("got %d/%d", m, y)
	}
	if m, y := PreviousMonth(7, 2025); m != 6 || y != 2025 {
		t.Fatalf("got %d/%d", m, y)
	}
}

func TestLedgerErrorMatching(t *testing.T) {
	err := fmt.Errorf("handler: %w", InsufficientFunds("transfer", "acc-1", "need 105.00"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound")
	}
	if KindOf(err) != ErrInsufficientFunds {
		t.Fatalf("KindOf = %v", KindOf(err))
	}
	var le *LedgerError
	if !errors.As(err, &le) || le.ID != "acc-1" {
		t.Fatalf("expected LedgerError for acc-1, got %#v", le)
	}

	inv := Invalid("add transaction", ErrEmptyDescription)
	if !errors.Is(inv, ErrValidation) || !errors.Is(inv, ErrEmptyDescription) {
		t.Fatalf("validation error should match kind and cause: %v", inv)
	}
	if KindOf(errors.New("boom")) != nil {
		t.Fatalf("plain errors carry no kind")
	}
}

func TestDateLayout(t *testing.T) {
	day := NewDate(2025, 5, 3)
	cases := map[string]string{
		"MM/DD/YYYY": "05/03/2025",
		"DD/MM/YYYY": "03/05/2025",
		"yyyy-mm-dd": "2025-05-03",
		"":           "05/03/2025",
	}
	for pref, want := range cases {
		if got := day.Format(DateLayout(pref)); got != want {
			t.Errorf("DateLayout(%q): got %s want %s", pref, got, want)
		}
	}
}
