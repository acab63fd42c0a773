package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// InsightType groups insights for presentation.
type InsightType string

const (
	InsightBill     InsightType = "bill"
	InsightSpending InsightType = "spending"
	InsightSavings  InsightType = "savings"
	InsightBudget   InsightType = "budget"
)

type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// Insights derives short observations about the month containing now.
// Spending and savings observations are suppressed when the user has
// turned AI insights off; bill reminders follow the bill toggle.
func Insights(st store.State, now time.Time) []Insight {
	prefs := st.Preferences.Notifications
	month, year := int(now.Month()), now.Year()
	cur := st.Preferences.Currency
	var out []Insight

	if prefs.BillReminders {
		for _, b := range UpcomingBills(st, now, dashboardBillWindow) {
			out = append(out, billInsight(b, cur))
		}
	}
	if !prefs.AIInsights {
		return out
	}

	spend := SpendingByCategory(st, month, year)
	if len(spend) > 0 {
		top := spend[0]
		out = append(out, Insight{
			Type:        InsightSpending,
			Title:       "Top spending category",
			Description: fmt.Sprintf("%s accounts for %s of this month's spending (%s)", top.Name, top.Percentage, core.FormatMoney(cur, top.Amount)),
		})
	}

	pm, py := core.PreviousMonth(month, year)
	thisMonth := MonthlyTotals(st, month, year).Expenses
	lastMonth := MonthlyTotals(st, pm, py).Expenses
	if lastMonth.IsPositive() && thisMonth.GreaterThan(lastMonth) {
		out = append(out, Insight{
			Type:        InsightSpending,
			Title:       "Spending increased",
			Description: fmt.Sprintf("You have spent %s%% more than last month", PercentageChange(thisMonth, lastMonth)),
		})
	}

	if r, ok := BudgetUsage(st, month, year); ok {
		for _, l := range r.Lines {
			if l.OverBudget {
				out = append(out, Insight{
					Type:        InsightBudget,
					Title:       "Over budget",
					Description: fmt.Sprintf("%s is over budget by %s", l.Name, core.FormatMoney(cur, l.Spent.Sub(l.Allocated))),
				})
			}
		}
	}

	for _, g := range st.Goals {
		if !g.TargetAmount.IsPositive() {
			continue
		}
		pct := SavingsProgress(g)
		switch {
		case g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount):
			out = append(out, Insight{
				Type:        InsightSavings,
				Title:       "Goal reached",
				Description: fmt.Sprintf("You have reached your %s goal", g.Name),
			})
		case pct >= 75:
			out = append(out, Insight{
				Type:        InsightSavings,
				Title:       "Almost there",
				Description: fmt.Sprintf("%s is %d%% funded, %s to go", g.Name, pct, core.FormatMoney(cur, g.TargetAmount.Sub(g.CurrentAmount))),
			})
		}
	}
	return out
}

func billInsight(b BillDue, currency string) Insight {
	amount := core.FormatMoney(currency, b.Amount)
	var when string
	switch {
	case b.Overdue:
		when = fmt.Sprintf("was due %d day(s) ago", -b.DaysUntil)
	case b.DaysUntil == 0:
		when = "is due today"
	default:
		when = fmt.Sprintf("is due in %d day(s)", b.DaysUntil)
	}
	return Insight{
		Type:        InsightBill,
		Title:       "Upcoming bill",
		Description: fmt.Sprintf("%s (%s) %s", b.Name, amount, when),
	}
}

// SavingsProgress returns the funded share of a goal, 0-100.
func SavingsProgress(g core.SavingsGoal) int {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	return min(percentOf(decimal.Max(g.CurrentAmount, decimal.Zero), g.TargetAmount), 100)
}
