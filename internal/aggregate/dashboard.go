package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

const (
	dashboardTopCategories = 5
	dashboardRecent        = 5
	dashboardBillWindow    = 7
)

type Trends struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

// DashboardSummary is everything the overview page shows for the month
// containing now.
type DashboardSummary struct {
	Month         int                    `json:"month"`
	Year          int                    `json:"year"`
	TotalBalance  decimal.Decimal        `json:"totalBalance"`
	Current       MonthTotals            `json:"current"`
	Previous      MonthTotals            `json:"previous"`
	Trends        Trends                 `json:"trends"`
	TopCategories []CategorySpend        `json:"topCategories"`
	UpcomingBills []BillDue              `json:"upcomingBills"`
	Budget        *BudgetReport          `json:"budget,omitempty"`
	Recent        []core.TransactionView `json:"recentTransactions"`
	Unread        int                    `json:"unreadNotifications"`
}

func Dashboard(st store.State, now time.Time) DashboardSummary {
	month, year := int(now.Month()), now.Year()
	pm, py := core.PreviousMonth(month, year)

	cur := MonthlyTotals(st, month, year)
	prev := MonthlyTotals(st, pm, py)

	d := DashboardSummary{
		Month:        month,
		Year:         year,
		TotalBalance: TotalBalance(st),
		Current:      cur,
		Previous:     prev,
		Trends: Trends{
			Income:   PercentageChange(cur.Income, prev.Income),
			Expenses: PercentageChange(cur.Expenses, prev.Expenses),
			Net:      PercentageChange(cur.Net, prev.Net),
		},
		TopCategories: SpendingByCategory(st, month, year),
		UpcomingBills: UpcomingBills(st, now, dashboardBillWindow),
	}
	if len(d.TopCategories) > dashboardTopCategories {
		d.TopCategories = d.TopCategories[:dashboardTopCategories]
	}
	if r, ok := BudgetUsage(st, month, year); ok {
		d.Budget = &r
	}
	d.Recent = SortedTransactions(st, TransactionFilter{})
	if len(d.Recent) > dashboardRecent {
		d.Recent = d.Recent[:dashboardRecent]
	}
	for _, n := range st.Notifications {
		if !n.Read {
			d.Unread++
		}
	}
	return d
}
