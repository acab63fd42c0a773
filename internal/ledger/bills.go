package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// BillsCategory files payments of bills that have no category of their own.
const BillsCategory = "Bills"

type NewBill struct {
	Name        string
	Amount      decimal.Decimal
	DueDate     time.Time
	IsRecurring bool
	Period      core.RepetitionTypes
	CategoryID  string
	AccountID   string
}

// BillPatch edits a bill. IsPaid may only be set to false; paying goes
// through PayBill so the payment is recorded.
type BillPatch struct {
	Name        *string
	Amount      *decimal.Decimal
	DueDate     *time.Time
	IsRecurring *bool
	Period      *core.RepetitionTypes
	CategoryID  *string
	AccountID   *string
	IsPaid      *bool
}

type PayBillRequest struct {
	// AccountID overrides the bill's own payment account.
	AccountID string
	Date      time.Time
}

func checkBillRefs(st *store.State, op string, b core.Bill) error {
	if b.CategoryID != "" && st.Category(b.CategoryID) == nil {
		return core.NotFound(op, "category", b.CategoryID)
	}
	if b.AccountID != "" && st.Account(b.AccountID) == nil {
		return core.NotFound(op, "account", b.AccountID)
	}
	return nil
}

func (s *Service) AddBill(ctx context.Context, in NewBill) (core.Bill, error) {
	var created core.Bill
	o := &outcome{
		op:        "add bill",
		title:     "Bill added",
		failTitle: "Failed to add bill",
		failDesc:  "An error occurred while adding the bill",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		b := core.Bill{
			ID:          s.newID("bill"),
			Name:        in.Name,
			Amount:      cents(in.Amount),
			DueDate:     in.DueDate,
			IsRecurring: in.IsRecurring,
			Period:      in.Period,
			CategoryID:  in.CategoryID,
			AccountID:   in.AccountID,
		}
		if b.IsRecurring && b.Period == "" {
			b.Period = core.Monthly
		}
		if err := b.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		if err := checkBillRefs(st, o.op, b); err != nil {
			return err
		}
		st.Bills = append(st.Bills, b)
		created = b
		o.description = b.Name + " has been added to your bills"
		return nil
	})
	return created, err
}

func (s *Service) UpdateBill(ctx context.Context, id string, patch BillPatch) (core.Bill, error) {
	var updated core.Bill
	o := &outcome{
		op:        "update bill",
		title:     "Bill updated",
		failTitle: "Failed to update bill",
		failDesc:  "An error occurred while updating the bill",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		b := st.Bill(id)
		if b == nil {
			return core.NotFound(o.op, "bill", id)
		}
		if patch.IsPaid != nil && *patch.IsPaid && !b.IsPaid {
			return core.Precondition(o.op, "Use pay bill to mark a bill as paid so the payment is recorded")
		}
		if patch.Name != nil {
			b.Name = *patch.Name
		}
		if patch.Amount != nil {
			b.Amount = cents(*patch.Amount)
		}
		if patch.DueDate != nil {
			b.DueDate = *patch.DueDate
		}
		if patch.IsRecurring != nil {
			b.IsRecurring = *patch.IsRecurring
		}
		if patch.Period != nil {
			b.Period = *patch.Period
		}
		if patch.CategoryID != nil {
			b.CategoryID = *patch.CategoryID
		}
		if patch.AccountID != nil {
			b.AccountID = *patch.AccountID
		}
		if patch.IsPaid != nil && !*patch.IsPaid {
			b.IsPaid = false
			b.PaidTransactionID = ""
		}
		if err := b.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		if err := checkBillRefs(st, o.op, *b); err != nil {
			return err
		}
		updated = *b
		o.description = b.Name + " has been updated"
		return nil
	})
	return updated, err
}

func (s *Service) DeleteBill(ctx context.Context, id string) error {
	o := &outcome{
		op:        "delete bill",
		title:     "Bill deleted",
		failTitle: "Failed to delete bill",
		failDesc:  "An error occurred while deleting the bill",
	}
	return s.run(ctx, o, func(st *store.State) error {
		b := st.Bill(id)
		if b == nil {
			return core.NotFound(o.op, "bill", id)
		}
		o.description = b.Name + " has been removed from your bills"
		st.RemoveBill(id)
		return nil
	})
}

// PayBill records the payment of an unpaid bill as an expense on the paying
// account and marks the bill paid, both or neither. No balance check is made:
// bills are routinely paid from credit accounts.
func (s *Service) PayBill(ctx context.Context, billID string, req PayBillRequest) (core.Bill, core.Transaction, error) {
	var (
		paid core.Bill
		tx   core.Transaction
	)
	o := &outcome{
		op:        "pay bill",
		title:     "Bill paid",
		failTitle: "Failed to pay bill",
		failDesc:  "An error occurred while paying the bill",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		b := st.Bill(billID)
		if b == nil {
			return core.NotFound(o.op, "bill", billID)
		}
		if b.IsPaid {
			return core.Precondition(o.op, b.Name+" is already paid")
		}
		accountID := req.AccountID
		if accountID == "" {
			accountID = b.AccountID
		}
		if accountID == "" {
			return core.Precondition(o.op, "Choose an account to pay "+b.Name+" from")
		}
		acct := st.Account(accountID)
		if acct == nil {
			return core.NotFound(o.op, "account", accountID)
		}

		billName, billAmount := b.Name, b.Amount
		categoryID := b.CategoryID
		if categoryID == "" || st.Category(categoryID) == nil {
			categoryID = s.ensureCategory(st, BillsCategory, "#64748b")
		}
		date := req.Date
		if date.IsZero() {
			date = s.now()
		}
		tx = core.Transaction{
			ID:          s.newID("txn"),
			Date:        date,
			Amount:      billAmount.Neg(),
			Description: "Payment for " + billName,
			CategoryID:  categoryID,
			AccountID:   accountID,
			Type:        core.Expense,
			IsRecurring: b.IsRecurring,
		}
		if err := tx.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		before := acct.Balance
		if err := applyPosting(st, o.op, tx); err != nil {
			return err
		}
		prependTransactions(st, tx)
		s.raiseAlerts(ctx, st, before, tx)

		b = st.Bill(billID)
		b.IsPaid = true
		b.PaidTransactionID = tx.ID
		paid = *b

		o.created = []core.Transaction{tx}
		o.description = fmt.Sprintf("%s paid: %s", billName, money(st, billAmount))
		return nil
	})
	return paid, tx, err
}

// RollOverBill reopens a paid recurring bill for its next period. nextDue
// must lie after the current due date.
func (s *Service) RollOverBill(ctx context.Context, billID string, nextDue time.Time) (core.Bill, error) {
	var rolled core.Bill
	o := &outcome{
		op:        "roll over bill",
		title:     "Bill renewed",
		failTitle: "Failed to renew bill",
		failDesc:  "An error occurred while renewing the bill",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		b := st.Bill(billID)
		if b == nil {
			return core.NotFound(o.op, "bill", billID)
		}
		if !b.IsRecurring || !b.IsPaid {
			return core.Precondition(o.op, b.Name+" is not a paid recurring bill")
		}
		if !nextDue.After(b.DueDate) {
			return core.Invalidf(o.op, "next due date %s is not after %s",
				nextDue.Format(time.DateOnly), b.DueDate.Format(time.DateOnly))
		}
		b.DueDate = nextDue
		b.IsPaid = false
		b.PaidTransactionID = ""
		rolled = *b
		o.description = fmt.Sprintf("%s is next due on %s", b.Name, nextDue.Format(time.DateOnly))

		if st.Preferences.Notifications.BillReminders {
			s.appendNotification(st, core.NotificationBill,
				fmt.Sprintf("%s of %s is due on %s", b.Name, money(st, b.Amount), nextDue.Format(time.DateOnly)))
		}
		return nil
	})
	return rolled, err
}
