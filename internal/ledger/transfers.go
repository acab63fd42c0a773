package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// TransferCategory is the category both legs of a transfer are filed under.
const TransferCategory = "Transfer"

type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	// Description replaces the generated leg descriptions when set.
	Description string
	Date        time.Time
}

// TransferBetweenAccounts moves Amount from one account to another. The
// source also pays Fee, which leaves the ledger entirely. Two linked
// transactions are recorded: -(Amount+Fee) on the source and +Amount on the
// destination.
func (s *Service) TransferBetweenAccounts(ctx context.Context, req TransferRequest) ([]core.Transaction, error) {
	var legs []core.Transaction
	o := &outcome{
		op:        "transfer",
		title:     "Transfer completed",
		failTitle: "Transfer failed",
		failDesc:  "An error occurred while processing the transfer",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		amount, fee := cents(req.Amount), cents(req.Fee)
		switch {
		case !amount.IsPositive():
			return core.Invalidf(o.op, "transfer amount must be greater than zero")
		case fee.IsNegative():
			return core.Invalidf(o.op, "transfer fee cannot be negative")
		case req.FromAccountID == req.ToAccountID:
			return core.Invalidf(o.op, "source and destination accounts must differ")
		}

		from, to := st.Account(req.FromAccountID), st.Account(req.ToAccountID)
		if from == nil || to == nil {
			missing := req.FromAccountID
			if from != nil {
				missing = req.ToAccountID
			}
			le := core.NotFound(o.op, "account", missing)
			le.Msg = "One or both accounts not found"
			return le
		}

		total := amount.Add(fee)
		if from.Balance.LessThan(total) {
			return core.InsufficientFunds(o.op, from.ID, "Insufficient funds in the source account")
		}

		date := req.Date
		if date.IsZero() {
			date = s.now()
		}
		outDesc := "Transfer to " + to.Name
		if fee.IsPositive() {
			outDesc += fmt.Sprintf(" (includes %s fee)", money(st, fee))
		}
		inDesc := "Transfer from " + from.Name
		if d := strings.TrimSpace(req.Description); d != "" {
			outDesc, inDesc = d, d
		}
		fromName, toName := from.Name, to.Name

		categoryID := s.ensureCategory(st, TransferCategory, "#64748b")
		transferID := s.newID("tr")
		out := core.Transaction{
			ID:               s.newID("txn"),
			Date:             date,
			Amount:           total.Neg(),
			Description:      outDesc,
			CategoryID:       categoryID,
			AccountID:        req.FromAccountID,
			Type:             core.Transfer,
			CounterAccountID: req.ToAccountID,
			Fee:              fee,
			TransferID:       transferID,
		}
		in := core.Transaction{
			ID:               s.newID("txn"),
			Date:             date,
			Amount:           amount,
			Description:      inDesc,
			CategoryID:       categoryID,
			AccountID:        req.ToAccountID,
			Type:             core.Transfer,
			CounterAccountID: req.FromAccountID,
			TransferID:       transferID,
		}
		for _, leg := range []core.Transaction{out, in} {
			if err := leg.Validate(); err != nil {
				return core.Invalid(o.op, err)
			}
		}

		before := balanceOf(st, out.AccountID)
		if err := applyPosting(st, o.op, out); err != nil {
			return err
		}
		if err := applyPosting(st, o.op, in); err != nil {
			return err
		}
		prependTransactions(st, in, out)
		s.raiseAlerts(ctx, st, before, out)

		legs = []core.Transaction{out, in}
		o.created = legs
		o.description = fmt.Sprintf("Successfully transferred %s from %s to %s", money(st, amount), fromName, toName)
		return nil
	})
	return legs, err
}
