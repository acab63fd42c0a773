package aggregate

import (
	"sort"
	"time"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// TransactionFilter narrows SortedTransactions. Zero fields match everything;
// From and To are inclusive calendar days.
type TransactionFilter struct {
	AccountID  string
	Type       core.TransactionType
	CategoryID string
	From       time.Time
	To         time.Time
}

func (f TransactionFilter) match(tx core.Transaction) bool {
	if f.AccountID != "" && tx.AccountID != f.AccountID {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
		return false
	}
	day := core.DayStart(tx.Date)
	if !f.From.IsZero() && day.Before(core.DayStart(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(core.DayStart(f.To)) {
		return false
	}
	return true
}

// SortedTransactions returns the matching transactions joined with their
// categories, newest first. Equal dates fall back to id order so the
// result never depends on insertion order.
func SortedTransactions(st store.State, f TransactionFilter) []core.TransactionView {
	out := make([]core.TransactionView, 0, len(st.Transactions))
	for _, tx := range st.Transactions {
		if f.match(tx) {
			out = append(out, st.View(tx))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
