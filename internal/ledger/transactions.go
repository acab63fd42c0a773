package ledger

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

type NewTransaction struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CategoryID  string
	AccountID   string
	Type        core.TransactionType
	IsRecurring bool
	Tags        []string
}

// TransactionPatch edits a transaction. Nil fields are left alone.
type TransactionPatch struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
	CategoryID  *string
	AccountID   *string
	Type        *core.TransactionType
	IsRecurring *bool
	Tags        *[]string
}

// touchesPosting reports whether the patch changes what the transaction
// posted to its account.
func (p TransactionPatch) touchesPosting() bool {
	return p.Amount != nil || p.Type != nil || p.AccountID != nil
}

// AddTransaction records an income or expense and posts it to its account.
// Transfer-typed transactions are stored without touching any balance; use
// TransferBetweenAccounts for real transfers.
func (s *Service) AddTransaction(ctx context.Context, in NewTransaction) (core.Transaction, error) {
	var created core.Transaction
	o := &outcome{
		op:          "add transaction",
		title:       "Transaction added",
		description: "Transaction has been recorded successfully",
		failTitle:   "Failed to add transaction",
		failDesc:    "An error occurred while adding the transaction",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		tx := core.Transaction{
			ID:          s.newID("txn"),
			Date:        in.Date,
			Amount:      normalizeAmount(in.Type, in.Amount),
			Description: in.Description,
			CategoryID:  in.CategoryID,
			AccountID:   in.AccountID,
			Type:        in.Type,
			IsRecurring: in.IsRecurring,
			Tags:        slices.Clone(in.Tags),
		}
		if tx.Date.IsZero() {
			tx.Date = s.now()
		}
		if err := tx.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		cat := st.Category(tx.CategoryID)
		if cat == nil {
			return core.NotFound(o.op, "category", tx.CategoryID)
		}
		if err := categoryFits(o.op, tx, cat); err != nil {
			return err
		}
		before := balanceOf(st, tx.AccountID)
		if err := applyPosting(st, o.op, tx); err != nil {
			return err
		}
		prependTransactions(st, tx)
		s.raiseAlerts(ctx, st, before, tx)
		created = tx
		o.created = []core.Transaction{tx}
		return nil
	})
	return created, err
}

// UpdateTransaction edits a transaction and moves balances so the account
// always reflects the edited posting: the old posting is reversed on the old
// account and the new one applied on the new account.
//
// Transfer legs keep their amount, type and account; edit them by deleting
// the transfer and making a new one.
func (s *Service) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	var updated core.Transaction
	o := &outcome{
		op:          "update transaction",
		title:       "Transaction updated",
		description: "Transaction has been updated successfully",
		failTitle:   "Failed to update transaction",
		failDesc:    "An error occurred while updating the transaction",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		cur := st.Transaction(id)
		if cur == nil {
			return core.NotFound(o.op, "transaction", id)
		}
		old := *cur

		if old.IsTransferLeg() && patch.touchesPosting() {
			return core.Precondition(o.op, "The amount, type and account of a transfer cannot be edited. Delete the transfer and create a new one.")
		}
		if old.IsContribution() && patch.touchesPosting() {
			return core.Precondition(o.op, "The amount, type and account of a goal contribution cannot be edited. Delete it and fund the goal again.")
		}
		if !old.IsTransferLeg() && patch.Type != nil && *patch.Type == core.Transfer && old.Type != core.Transfer {
			return core.Precondition(o.op, "A transaction cannot be turned into a transfer. Use a transfer between accounts instead.")
		}

		next := old
		if patch.Date != nil {
			next.Date = *patch.Date
		}
		if patch.Description != nil {
			next.Description = *patch.Description
		}
		if patch.CategoryID != nil {
			next.CategoryID = *patch.CategoryID
		}
		if patch.AccountID != nil {
			next.AccountID = *patch.AccountID
		}
		if patch.Type != nil {
			next.Type = *patch.Type
		}
		if patch.IsRecurring != nil {
			next.IsRecurring = *patch.IsRecurring
		}
		if patch.Tags != nil {
			next.Tags = slices.Clone(*patch.Tags)
		}
		amount := old.Amount
		if patch.Amount != nil {
			amount = *patch.Amount
		}
		if !next.IsTransferLeg() {
			next.Amount = normalizeAmount(next.Type, amount)
		}

		if err := next.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		cat := st.Category(next.CategoryID)
		if cat == nil {
			return core.NotFound(o.op, "category", next.CategoryID)
		}
		// seeded data may already mix directions; only check what the edit touches
		if patch.Type != nil || patch.CategoryID != nil {
			if err := categoryFits(o.op, next, cat); err != nil {
				return err
			}
		}
		if st.Account(next.AccountID) == nil {
			return core.NotFound(o.op, "account", next.AccountID)
		}

		if !old.IsTransferLeg() {
			reversePosting(st, old)
			if err := applyPosting(st, o.op, next); err != nil {
				return err
			}
		} else if patch.Date != nil {
			// both legs of a transfer share one date
			for i := range st.Transactions {
				if st.Transactions[i].TransferID == old.TransferID {
					st.Transactions[i].Date = next.Date
				}
			}
		}

		*st.Transaction(id) = next
		updated = next
		o.removed = []core.Transaction{old}
		o.created = []core.Transaction{next}
		return nil
	})
	return updated, err
}

// DeleteTransaction removes a transaction and reverses its posting. Deleting
// either leg of a transfer removes the whole transfer and restores both
// accounts. Bills paid by a removed transaction are reopened and goal
// contributions are taken back out of their goal.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	o := &outcome{
		op:          "delete transaction",
		title:       "Transaction deleted",
		description: "Transaction has been removed successfully",
		failTitle:   "Failed to delete transaction",
		failDesc:    "An error occurred while deleting the transaction",
	}
	return s.run(ctx, o, func(st *store.State) error {
		tx := st.Transaction(id)
		if tx == nil {
			return core.NotFound(o.op, "transaction", id)
		}

		doomed := []core.Transaction{*tx}
		if tx.IsTransferLeg() {
			doomed = st.TransferLegs(tx.TransferID)
			o.description = "Transfer has been removed and both accounts restored"
		}

		o.removed = doomed
		for _, d := range doomed {
			reversePosting(st, d)
			st.RemoveTransaction(d.ID)
			if g := st.Goal(d.GoalID); d.IsContribution() && g != nil {
				g.CurrentAmount = g.CurrentAmount.Sub(d.Amount.Abs())
			}
			for i := range st.Bills {
				if st.Bills[i].PaidTransactionID == d.ID {
					st.Bills[i].IsPaid = false
					st.Bills[i].PaidTransactionID = ""
				}
			}
		}
		return nil
	})
}
