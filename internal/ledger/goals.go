package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// SavingsCategory is the preferred category for goal contributions.
const SavingsCategory = "Savings"

type NewGoal struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	Color        string
}

// GoalPatch edits a goal. Progress only moves through FundSavingsGoal.
type GoalPatch struct {
	Name            *string
	TargetAmount    *decimal.Decimal
	TargetDate      *time.Time
	ClearTargetDate bool
	Color           *string
}

// AddSavingsGoal creates a goal with no progress.
func (s *Service) AddSavingsGoal(ctx context.Context, in NewGoal) (core.SavingsGoal, error) {
	var created core.SavingsGoal
	o := &outcome{
		op:        "add savings goal",
		title:     "Savings goal added",
		failTitle: "Failed to add savings goal",
		failDesc:  "An error occurred while adding the savings goal",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		g := core.SavingsGoal{
			ID:            s.newID("goal"),
			Name:          in.Name,
			TargetAmount:  cents(in.TargetAmount),
			CurrentAmount: decimal.Zero,
			Color:         in.Color,
		}
		if in.TargetDate != nil {
			d := *in.TargetDate
			g.TargetDate = &d
		}
		if err := g.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		st.Goals = append(st.Goals, g)
		created = g
		o.description = g.Name + " goal has been created successfully"
		return nil
	})
	return created, err
}

func (s *Service) UpdateSavingsGoal(ctx context.Context, id string, patch GoalPatch) (core.SavingsGoal, error) {
	var updated core.SavingsGoal
	o := &outcome{
		op:        "update savings goal",
		title:     "Savings goal updated",
		failTitle: "Failed to update savings goal",
		failDesc:  "An error occurred while updating the savings goal",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		g := st.Goal(id)
		if g == nil {
			return core.NotFound(o.op, "savings goal", id)
		}
		if patch.Name != nil {
			g.Name = *patch.Name
		}
		if patch.TargetAmount != nil {
			g.TargetAmount = cents(*patch.TargetAmount)
		}
		switch {
		case patch.ClearTargetDate:
			g.TargetDate = nil
		case patch.TargetDate != nil:
			d := *patch.TargetDate
			g.TargetDate = &d
		}
		if patch.Color != nil {
			g.Color = *patch.Color
		}
		if err := g.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		updated = *g
		o.description = g.Name + " has been updated"
		return nil
	})
	return updated, err
}

// DeleteSavingsGoal removes a goal. Contributions already made stay in the
// transaction history.
func (s *Service) DeleteSavingsGoal(ctx context.Context, id string) error {
	o := &outcome{
		op:        "delete savings goal",
		title:     "Savings goal deleted",
		failTitle: "Failed to delete savings goal",
		failDesc:  "An error occurred while deleting the savings goal",
	}
	return s.run(ctx, o, func(st *store.State) error {
		g := st.Goal(id)
		if g == nil {
			return core.NotFound(o.op, "savings goal", id)
		}
		o.description = g.Name + " has been removed"
		for i := range st.Transactions {
			if st.Transactions[i].GoalID == id {
				st.Transactions[i].GoalID = ""
			}
		}
		st.RemoveGoal(id)
		return nil
	})
}

// FundSavingsGoal moves amount from an account into a goal, recording the
// contribution as an expense on the account. Goals may be funded past their
// target.
func (s *Service) FundSavingsGoal(ctx context.Context, goalID, accountID string, amount decimal.Decimal) (core.SavingsGoal, core.Transaction, error) {
	var (
		funded core.SavingsGoal
		tx     core.Transaction
	)
	o := &outcome{
		op:        "fund savings goal",
		title:     "Goal funded",
		failTitle: "Funding failed",
		failDesc:  "An error occurred while funding the goal",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		amount := cents(amount)
		if !amount.IsPositive() {
			return core.Invalidf(o.op, "contribution must be greater than zero")
		}
		g, acct := st.Goal(goalID), st.Account(accountID)
		if g == nil || acct == nil {
			entity, id := "savings goal", goalID
			if g != nil {
				entity, id = "account", accountID
			}
			le := core.NotFound(o.op, entity, id)
			le.Msg = "Goal or account not found"
			return le
		}
		if acct.Balance.LessThan(amount) {
			return core.InsufficientFunds(o.op, acct.ID, "Insufficient funds in the selected account")
		}

		goalName := g.Name
		tx = core.Transaction{
			ID:          s.newID("txn"),
			Date:        s.now(),
			Amount:      amount.Neg(),
			Description: fmt.Sprintf("Contribution to %s goal", goalName),
			CategoryID:  s.contributionCategory(st),
			AccountID:   accountID,
			Type:        core.Expense,
			GoalID:      goalID,
		}
		before := acct.Balance
		if err := applyPosting(st, o.op, tx); err != nil {
			return err
		}
		prependTransactions(st, tx)

		g = st.Goal(goalID)
		g.CurrentAmount = g.CurrentAmount.Add(amount)
		funded = *g
		s.raiseAlerts(ctx, st, before, tx)

		o.created = []core.Transaction{tx}
		o.description = fmt.Sprintf("Added %s to your %s goal", money(st, amount), goalName)
		return nil
	})
	return funded, tx, err
}

// contributionCategory picks the "Savings" category, then the first expense
// category, creating "Savings" when neither exists.
func (s *Service) contributionCategory(st *store.State) string {
	if c := st.CategoryByName(SavingsCategory); c != nil {
		return c.ID
	}
	for _, c := range st.Categories {
		if c.Type == core.Expense {
			return c.ID
		}
	}
	return s.ensureCategory(st, SavingsCategory, "#22c55e")
}
