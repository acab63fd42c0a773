package ledger

import (
	"context"
	"fmt"
	"time"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// SetBudget creates or replaces the allocations for one calendar month.
// A category may appear only once.
func (s *Service) SetBudget(ctx context.Context, month, year int, lines []core.BudgetCategory) (core.Budget, error) {
	var saved core.Budget
	o := &outcome{
		op:        "set budget",
		title:     "Budget saved",
		failTitle: "Failed to save budget",
		failDesc:  "An error occurred while saving the budget",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		b := core.Budget{Month: month, Year: year}
		seen := make(map[string]bool, len(lines))
		for _, l := range lines {
			if st.Category(l.CategoryID) == nil {
				return core.NotFound(o.op, "category", l.CategoryID)
			}
			if seen[l.CategoryID] {
				return core.Invalidf(o.op, "category %s is allocated twice", l.CategoryID)
			}
			seen[l.CategoryID] = true
			b.Categories = append(b.Categories, core.BudgetCategory{CategoryID: l.CategoryID, Allocated: cents(l.Allocated)})
		}
		if err := b.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}

		if existing := st.BudgetFor(month, year); existing != nil {
			b.ID = existing.ID
			*existing = b
		} else {
			b.ID = s.newID("budget")
			st.Budgets = append(st.Budgets, b)
		}
		saved = b
		o.description = fmt.Sprintf("Budget for %s %d has been saved", time.Month(month), year)
		return nil
	})
	return saved, err
}

func (s *Service) DeleteBudget(ctx context.Context, id string) error {
	o := &outcome{
		op:        "delete budget",
		title:     "Budget deleted",
		failTitle: "Failed to delete budget",
		failDesc:  "An error occurred while deleting the budget",
	}
	return s.run(ctx, o, func(st *store.State) error {
		b := st.Budget(id)
		if b == nil {
			return core.NotFound(o.op, "budget", id)
		}
		o.description = fmt.Sprintf("Budget for %s %d has been removed", time.Month(b.Month), b.Year)
		st.RemoveBudget(id)
		return nil
	})
}
