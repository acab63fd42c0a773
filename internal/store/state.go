package store

import (
	"slices"

	"moneyx/internal/core"
)

// State is everything the ledger knows about one user. Slices keep
// insertion order; newest transactions and notifications are prepended.
type State struct {
	UserID        string              `json:"userId"`
	Accounts      []core.Account      `json:"accounts"`
	Transactions  []core.Transaction  `json:"transactions"`
	Categories    []core.Category     `json:"categories"`
	Bills         []core.Bill         `json:"bills"`
	Goals         []core.SavingsGoal  `json:"savingsGoals"`
	Budgets       []core.Budget       `json:"budgets"`
	Notifications []core.Notification `json:"notifications"`
	Preferences   core.Preferences    `json:"preferences"`
}

// Empty returns a state for userID with no entities and default preferences.
func Empty(userID string) State {
	return State{UserID: userID, Preferences: core.DefaultPreferences()}
}

// Clone returns a deep copy. Mutating the copy never affects s.
func (s State) Clone() State {
	c := s
	c.Accounts = slices.Clone(s.Accounts)
	c.Categories = slices.Clone(s.Categories)
	c.Bills = slices.Clone(s.Bills)
	c.Notifications = slices.Clone(s.Notifications)

	c.Transactions = slices.Clone(s.Transactions)
	for i := range c.Transactions {
		c.Transactions[i].Tags = slices.Clone(c.Transactions[i].Tags)
	}
	c.Goals = slices.Clone(s.Goals)
	for i := range c.Goals {
		if d := c.Goals[i].TargetDate; d != nil {
			t := *d
			c.Goals[i].TargetDate = &t
		}
	}
	c.Budgets = slices.Clone(s.Budgets)
	for i := range c.Budgets {
		c.Budgets[i].Categories = slices.Clone(c.Budgets[i].Categories)
	}
	return c
}

func (s *State) Account(id string) *core.Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

func (s *State) Transaction(id string) *core.Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

func (s *State) Category(id string) *core.Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// CategoryByName does a case-sensitive lookup by display name.
func (s *State) CategoryByName(name string) *core.Category {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}
	return nil
}

func (s *State) Bill(id string) *core.Bill {
	for i := range s.Bills {
		if s.Bills[i].ID == id {
			return &s.Bills[i]
		}
	}
	return nil
}

func (s *State) Goal(id string) *core.SavingsGoal {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return &s.Goals[i]
		}
	}
	return nil
}

func (s *State) Budget(id string) *core.Budget {
	for i := range s.Budgets {
		if s.Budgets[i].ID == id {
			return &s.Budgets[i]
		}
	}
	return nil
}

// BudgetFor returns the budget for a calendar month, if one exists.
func (s *State) BudgetFor(month, year int) *core.Budget {
	for i := range s.Budgets {
		if s.Budgets[i].Month == month && s.Budgets[i].Year == year {
			return &s.Budgets[i]
		}
	}
	return nil
}

func (s *State) Notification(id string) *core.Notification {
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			return &s.Notifications[i]
		}
	}
	return nil
}

// TransferLegs returns every transaction sharing transferID.
func (s *State) TransferLegs(transferID string) []core.Transaction {
	if transferID == "" {
		return nil
	}
	var legs []core.Transaction
	for _, t := range s.Transactions {
		if t.TransferID == transferID {
			legs = append(legs, t)
		}
	}
	return legs
}

// The Remove* helpers delete by id preserving the order of the remaining
// elements and report whether anything was removed.

func (s *State) RemoveAccount(id string) bool {
	n := len(s.Accounts)
	s.Accounts = slices.DeleteFunc(s.Accounts, func(a core.Account) bool { return a.ID == id })
	return len(s.Accounts) != n
}

func (s *State) RemoveTransaction(id string) bool {
	n := len(s.Transactions)
	s.Transactions = slices.DeleteFunc(s.Transactions, func(t core.Transaction) bool { return t.ID == id })
	return len(s.Transactions) != n
}

func (s *State) RemoveCategory(id string) bool {
	n := len(s.Categories)
	s.Categories = slices.DeleteFunc(s.Categories, func(c core.Category) bool { return c.ID == id })
	return len(s.Categories) != n
}

func (s *State) RemoveBill(id string) bool {
	n := len(s.Bills)
	s.Bills = slices.DeleteFunc(s.Bills, func(b core.Bill) bool { return b.ID == id })
	return len(s.Bills) != n
}

func (s *State) RemoveGoal(id string) bool {
	n := len(s.Goals)
	s.Goals = slices.DeleteFunc(s.Goals, func(g core.SavingsGoal) bool { return g.ID == id })
	return len(s.Goals) != n
}

func (s *State) RemoveBudget(id string) bool {
	n := len(s.Budgets)
	s.Budgets = slices.DeleteFunc(s.Budgets, func(b core.Budget) bool { return b.ID == id })
	return len(s.Budgets) != n
}

// View joins a transaction with its category. Unknown categories yield a
// zero Category carrying only the id.
func (s *State) View(t core.Transaction) core.TransactionView {
	v := core.TransactionView{Transaction: t}
	if c := s.Category(t.CategoryID); c != nil {
		v.Category = *c
	} else {
		v.Category = core.Category{ID: t.CategoryID}
	}
	return v
}

// Views joins every transaction with its category, preserving order.
func (s *State) Views() []core.TransactionView {
	out := make([]core.TransactionView, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		out = append(out, s.View(t))
	}
	return out
}
