package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/log"
	"moneyx/internal/store"
)

// applyPosting moves the account balance by the transaction's posting.
func applyPosting(st *store.State, op string, tx core.Transaction) error {
	acct := st.Account(tx.AccountID)
	if acct == nil {
		return core.NotFound(op, "account", tx.AccountID)
	}
	acct.Balance = acct.Balance.Add(tx.Posting())
	return nil
}

// reversePosting undoes applyPosting. Transactions whose account has
// vanished have nothing left to reverse.
func reversePosting(st *store.State, tx core.Transaction) {
	if acct := st.Account(tx.AccountID); acct != nil {
		acct.Balance = acct.Balance.Sub(tx.Posting())
	}
}

// normalizeAmount stores income as a positive and expenses as a negative
// amount, whatever sign the caller used.
func normalizeAmount(typ core.TransactionType, amount decimal.Decimal) decimal.Decimal {
	amount = cents(amount)
	switch typ {
	case core.Income:
		return amount.Abs()
	case core.Expense:
		return amount.Abs().Neg()
	}
	return amount
}

// categoryFits rejects income filed under an expense category and the
// reverse. Transfers and the Transfer category take either direction.
func categoryFits(op string, tx core.Transaction, c *core.Category) error {
	if tx.Type == core.Transfer || c.Name == TransferCategory || c.Type == tx.Type {
		return nil
	}
	return core.Invalidf(op, "%s transactions cannot use the %s category %s", tx.Type, c.Type, c.Name)
}

// prependTransactions inserts txs newest-first.
func prependTransactions(st *store.State, txs ...core.Transaction) {
	st.Transactions = append(append([]core.Transaction(nil), txs...), st.Transactions...)
}

// ensureCategory returns the id of the category named name, creating it
// when missing.
func (s *Service) ensureCategory(st *store.State, name, color string) string {
	if c := st.CategoryByName(name); c != nil {
		return c.ID
	}
	c := core.Category{ID: s.newID("cat"), Name: name, Type: core.Expense, Color: color}
	st.Categories = append(st.Categories, c)
	return c.ID
}

// raiseAlerts records balance and large transaction notifications for a
// posting, honouring the user's notification preferences.
func (s *Service) raiseAlerts(ctx context.Context, st *store.State, before decimal.Decimal, tx core.Transaction) {
	prefs := st.Preferences.Notifications
	acct := st.Account(tx.AccountID)
	if acct == nil {
		return
	}

	if prefs.LargeTransactions && tx.Amount.Abs().GreaterThanOrEqual(s.largeTransaction) {
		s.logger.DebugContext(ctx, "large transaction alert", log.NewFields().WithPosting(acct.ID, tx.ID, tx.Amount).ToSlice()...)
		s.appendNotification(st, core.NotificationTransaction,
			fmt.Sprintf("Large transaction of %s on %s: %s", money(st, tx.Amount.Abs()), acct.Name, tx.Description))
	}
	if prefs.LowBalance && acct.Type != core.Credit &&
		before.GreaterThanOrEqual(s.lowBalance) && acct.Balance.LessThan(s.lowBalance) {
		s.appendNotification(st, core.NotificationBalance,
			fmt.Sprintf("%s balance is low: %s", acct.Name, money(st, acct.Balance)))
	}
}

func (s *Service) appendNotification(st *store.State, typ core.NotificationType, message string) core.Notification {
	n := core.Notification{
		ID:      s.newID("notif"),
		Type:    typ,
		Message: message,
		Date:    s.now(),
	}
	st.Notifications = append([]core.Notification{n}, st.Notifications...)
	return n
}

func balanceOf(st *store.State, accountID string) decimal.Decimal {
	if a := st.Account(accountID); a != nil {
		return a.Balance
	}
	return decimal.Zero
}
