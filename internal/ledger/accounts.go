package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

type NewAccount struct {
	Name    string
	Type    core.AccountType
	Balance decimal.Decimal
	Color   string
}

// AccountPatch changes the descriptive fields of an account. The balance
// only moves through postings.
type AccountPatch struct {
	Name  *string
	Type  *core.AccountType
	Color *string
}

// AddAccount opens an account for the active user with an opening balance.
func (s *Service) AddAccount(ctx context.Context, in NewAccount) (core.Account, error) {
	var created core.Account
	o := &outcome{
		op:        "add account",
		title:     "Account added",
		failTitle: "Failed to add account",
		failDesc:  "An error occurred while adding the account",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		acct := core.Account{
			ID:      s.newID("acc"),
			Name:    in.Name,
			Type:    in.Type,
			Balance: cents(in.Balance),
			UserID:  st.UserID,
			Color:   in.Color,
		}
		if err := acct.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		st.Accounts = append(st.Accounts, acct)
		created = acct
		o.description = acct.Name + " has been added successfully"
		return nil
	})
	return created, err
}

func (s *Service) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (core.Account, error) {
	var updated core.Account
	o := &outcome{
		op:        "update account",
		title:     "Account updated",
		failTitle: "Failed to update account",
		failDesc:  "An error occurred while updating the account",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		acct := st.Account(id)
		if acct == nil {
			return core.NotFound(o.op, "account", id)
		}
		if patch.Name != nil {
			acct.Name = *patch.Name
		}
		if patch.Type != nil {
			acct.Type = *patch.Type
		}
		if patch.Color != nil {
			acct.Color = *patch.Color
		}
		if err := acct.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		updated = *acct
		o.description = acct.Name + " has been updated"
		return nil
	})
	return updated, err
}

// DeleteAccount removes an account no transaction or bill refers to.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	o := &outcome{
		op:        "delete account",
		title:     "Account deleted",
		failTitle: "Cannot delete account",
		failDesc:  "An error occurred while deleting the account",
	}
	return s.run(ctx, o, func(st *store.State) error {
		acct := st.Account(id)
		if acct == nil {
			return core.NotFound(o.op, "account", id)
		}
		for _, tx := range st.Transactions {
			if tx.AccountID == id || tx.CounterAccountID == id {
				return core.InUse(o.op, "account", id,
					"This account has transactions linked to it. Delete the transactions first or move them to another account.")
			}
		}
		for _, b := range st.Bills {
			if b.AccountID == id {
				return core.InUse(o.op, "account", id,
					"This account is the payment source of the bill "+b.Name+". Change the bill first.")
			}
		}
		o.description = acct.Name + " has been removed"
		st.RemoveAccount(id)
		return nil
	})
}
