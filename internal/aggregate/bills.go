package aggregate

import (
	"sort"
	"time"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

type BillDue struct {
	core.Bill
	DaysUntil int  `json:"daysUntil"`
	Overdue   bool `json:"overdue"`
}

// DaysUntilDue counts calendar days from now to due. Past dates are negative.
func DaysUntilDue(due, now time.Time) int {
	return core.DaysBetween(now, due)
}

// UpcomingBills lists unpaid bills due within the given number of days,
// overdue ones included, soonest first.
func UpcomingBills(st store.State, now time.Time, within int) []BillDue {
	var out []BillDue
	for _, b := range st.Bills {
		if b.IsPaid {
			continue
		}
		days := DaysUntilDue(b.DueDate, now)
		if days > within {
			continue
		}
		out = append(out, BillDue{Bill: b, DaysUntil: days, Overdue: days < 0})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].ID < out[j].ID
	})
	return out
}
