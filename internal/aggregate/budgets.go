package aggregate

import (
	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// BudgetLine is one allocation with its live spending. Percent is clamped
// to 100 for display; OverBudget carries the real comparison.
type BudgetLine struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Allocated  decimal.Decimal `json:"allocated"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percent    int             `json:"percent"`
	OverBudget bool            `json:"overBudget"`
}

type BudgetReport struct {
	BudgetID       string          `json:"budgetId"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	TotalAllocated decimal.Decimal `json:"totalAllocated"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	Percent        int             `json:"percent"`
	OverBudget     bool            `json:"overBudget"`
	Lines          []BudgetLine    `json:"lines"`
}

// BudgetUsage joins the month's budget with expense totals per category.
// It returns false when no budget exists for that month.
func BudgetUsage(st store.State, month, year int) (BudgetReport, bool) {
	b := st.BudgetFor(month, year)
	if b == nil {
		return BudgetReport{}, false
	}

	spent := make(map[string]decimal.Decimal)
	for _, tx := range st.Transactions {
		if tx.Type == core.Expense && core.InMonth(tx.Date, month, year) {
			spent[tx.CategoryID] = spent[tx.CategoryID].Add(tx.Amount.Abs())
		}
	}

	r := BudgetReport{
		BudgetID:       b.ID,
		Month:          b.Month,
		Year:           b.Year,
		TotalAllocated: decimal.Zero,
		TotalSpent:     decimal.Zero,
		Lines:          make([]BudgetLine, 0, len(b.Categories)),
	}
	for _, c := range b.Categories {
		s := spent[c.CategoryID]
		line := BudgetLine{
			CategoryID: c.CategoryID,
			Name:       OtherCategoryName,
			Color:      OtherCategoryColor,
			Allocated:  c.Allocated,
			Spent:      s,
			Remaining:  c.Allocated.Sub(s),
			Percent:    min(percentOf(s, c.Allocated), 100),
			OverBudget: s.GreaterThan(c.Allocated),
		}
		if cat := st.Category(c.CategoryID); cat != nil {
			line.Name, line.Color = cat.Name, cat.Color
		}
		if c.Allocated.IsZero() && s.IsPositive() {
			line.Percent = 100
		}
		r.TotalAllocated = r.TotalAllocated.Add(c.Allocated)
		r.TotalSpent = r.TotalSpent.Add(s)
		r.Lines = append(r.Lines, line)
	}
	r.Percent = min(percentOf(r.TotalSpent, r.TotalAllocated), 100)
	r.OverBudget = r.TotalSpent.GreaterThan(r.TotalAllocated)
	return r, true
}
