// Package aggregate derives read-only views from a state snapshot: totals,
// trends, category breakdowns, budget usage, dashboards and exports. Nothing
// here is cached; every call recomputes from the state it is given.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// Sentinels returned by PercentageChange. ChangeNotAvailable is kept for
// clients of the JSON API; decimal division never yields NaN or infinity.
const (
	ChangeNew          = "New"
	ChangeNone         = "0.0"
	ChangeNotAvailable = "N/A"
)

// Fallback presentation for transactions whose category no longer exists.
const (
	OtherCategoryName  = "Other"
	OtherCategoryColor = "#CBD5E1"
)

var hundred = decimal.NewFromInt(100)

type MonthTotals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type CategorySpend struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage string          `json:"percentage"`
}

// TotalBalance sums every account balance, negative ones included.
func TotalBalance(st store.State) decimal.Decimal {
	total := decimal.Zero
	for _, a := range st.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// MonthlyTotals sums income and expense magnitudes for a calendar month.
// Transfers are movements between the user's own accounts and count as
// neither.
func MonthlyTotals(st store.State, month, year int) MonthTotals {
	t := MonthTotals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range st.Transactions {
		if !core.InMonth(tx.Date, month, year) {
			continue
		}
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expenses = t.Expenses.Add(tx.Amount.Abs())
		}
	}
	t.Net = t.Income.Sub(t.Expenses)
	return t
}

func MonthlyNetIncome(st store.State, month, year int) decimal.Decimal {
	return MonthlyTotals(st, month, year).Net
}

// PercentageChange formats the relative change from previous to current
// with one decimal. A zero previous value yields ChangeNew when current is
// positive and ChangeNone otherwise.
func PercentageChange(current, previous decimal.Decimal) string {
	if previous.IsZero() {
		if current.IsPositive() {
			return ChangeNew
		}
		return ChangeNone
	}
	change := current.Sub(previous).Div(previous.Abs()).Mul(hundred)
	return change.StringFixed(1)
}

// SpendingByCategory groups the month's expenses by category, largest
// first. Percentages are shares of the month's total expenses.
func SpendingByCategory(st store.State, month, year int) []CategorySpend {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, tx := range st.Transactions {
		if tx.Type != core.Expense || !core.InMonth(tx.Date, month, year) {
			continue
		}
		amt := tx.Amount.Abs()
		sums[tx.CategoryID] = sums[tx.CategoryID].Add(amt)
		total = total.Add(amt)
	}

	out := make([]CategorySpend, 0, len(sums))
	for id, amt := range sums {
		cs := CategorySpend{CategoryID: id, Name: OtherCategoryName, Color: OtherCategoryColor, Amount: amt}
		if c := st.Category(id); c != nil {
			cs.Name, cs.Color = c.Name, c.Color
		}
		cs.Percentage = share(amt, total)
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

func share(part, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "0%"
	}
	return part.Div(total).Mul(hundred).StringFixed(1) + "%"
}

// percentOf returns part/whole as a whole percentage, rounded.
func percentOf(part, whole decimal.Decimal) int {
	if whole.IsZero() {
		return 0
	}
	return int(part.Div(whole).Mul(hundred).Round(0).IntPart())
}
