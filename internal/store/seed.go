package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"moneyx/internal/core"
)

// SeedFileName is the per-user seed file looked up in the data directory.
const SeedFileName = "seed.json"

// LoadSeedFile reads a JSON state from path. A missing file returns
// os.ErrNotExist so callers can fall back to MockState.
func LoadSeedFile(path string) (State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return st, nil
}

// InitialState picks the state a fresh login starts from: the seed file in
// dataDir when present, the built-in dataset otherwise.
func InitialState(dataDir, userID string) (State, error) {
	if dataDir != "" {
		st, err := LoadSeedFile(filepath.Join(dataDir, SeedFileName))
		switch {
		case err == nil:
			st.UserID = userID
			for i := range st.Accounts {
				st.Accounts[i].UserID = userID
			}
			return st, nil
		case !errors.Is(err, os.ErrNotExist):
			return State{}, err
		}
	}
	return MockState(userID), nil
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y, m, d int) time.Time { return core.NewDate(y, m, d) }

// MockState is the demo dataset every new session starts with.
func MockState(userID string) State {
	categories := []core.Category{
		{ID: "cat-1", Name: "Housing", Type: core.Expense, Color: "#ef4444"},
		{ID: "cat-2", Name: "Groceries", Type: core.Expense, Color: "#22c55e"},
		{ID: "cat-3", Name: "Dining", Type: core.Expense, Color: "#f97316"},
		{ID: "cat-4", Name: "Transportation", Type: core.Expense, Color: "#3b82f6"},
		{ID: "cat-5", Name: "Entertainment", Type: core.Expense, Color: "#9b87f5"},
		{ID: "cat-6", Name: "Utilities", Type: core.Expense, Color: "#64748b"},
		{ID: "cat-7", Name: "Healthcare", Type: core.Expense, Color: "#0ea5e9"},
		{ID: "cat-8", Name: "Shopping", Type: core.Expense, Color: "#8b5cf6"},
		{ID: "cat-9", Name: "Gifts", Type: core.Expense, Color: "#9333ea"},
		{ID: "cat-10", Name: "Salary", Type: core.Income, Color: "#22c55e"},
		{ID: "cat-11", Name: "Investments", Type: core.Income, Color: "#3b82f6"},
		{ID: "cat-12", Name: "Transfer", Type: core.Expense, Color: "#64748b"},
	}

	accounts := []core.Account{
		{ID: "acc-1", Name: "Main Checking", Type: core.Checking, Balance: amt("3500"), UserID: userID},
		{ID: "acc-2", Name: "Savings", Type: core.Savings, Balance: amt("12500"), UserID: userID},
		{ID: "acc-3", Name: "Credit Card", Type: core.Credit, Balance: amt("-1500"), UserID: userID},
		{ID: "acc-4", Name: "Investment", Type: core.Investment, Balance: amt("45000"), UserID: userID},
	}

	transactions := []core.Transaction{
		{ID: "trans-1", Date: day(2025, 5, 3), Amount: amt("250"), Description: "Dividend payment", CategoryID: "cat-11", AccountID: "acc-4", Type: core.Income},
		{ID: "trans-2", Date: day(2025, 5, 2), Amount: amt("-45"), Description: "Dinner at Italian restaurant", CategoryID: "cat-3", AccountID: "acc-3", Type: core.Expense},
		{ID: "trans-3", Date: day(2025, 5, 2), Amount: amt("100"), Description: "Birthday gift", CategoryID: "cat-9", AccountID: "acc-2", Type: core.Income},
		{ID: "trans-4", Date: day(2025, 5, 1), Amount: amt("-85.75"), Description: "Grocery shopping", CategoryID: "cat-2", AccountID: "acc-1", Type: core.Expense},
		{ID: "trans-5", Date: day(2025, 5, 1), Amount: amt("-1200"), Description: "Rent payment", CategoryID: "cat-1", AccountID: "acc-1", Type: core.Expense},
		{ID: "trans-6", Date: day(2025, 5, 1), Amount: amt("3500"), Description: "Salary deposit", CategoryID: "cat-10", AccountID: "acc-1", Type: core.Income},
		{ID: "trans-7", Date: day(2025, 4, 30), Amount: amt("-42.50"), Description: "Pharmacy", CategoryID: "cat-7", AccountID: "acc-3", Type: core.Expense},
	}

	bills := []core.Bill{
		{ID: "bill-1", Name: "Internet", Amount: amt("75"), DueDate: day(2025, 5, 15), IsRecurring: true, Period: core.Monthly, CategoryID: "cat-6"},
		{ID: "bill-2", Name: "Phone Bill", Amount: amt("85"), DueDate: day(2025, 5, 18), IsRecurring: true, Period: core.Monthly, CategoryID: "cat-6"},
		{ID: "bill-3", Name: "Electric Bill", Amount: amt("125"), DueDate: day(2025, 5, 20), IsRecurring: true, Period: core.Monthly, CategoryID: "cat-6"},
		{ID: "bill-4", Name: "Rent", Amount: amt("1200"), DueDate: day(2025, 6, 1), IsRecurring: true, Period: core.Monthly, CategoryID: "cat-1"},
	}

	vacation := day(2025, 12, 31)
	laptop := day(2025, 8, 15)
	goals := []core.SavingsGoal{
		{ID: "goal-1", Name: "Vacation", TargetAmount: amt("3000"), CurrentAmount: amt("1200"), TargetDate: &vacation, Color: "#3b82f6"},
		{ID: "goal-2", Name: "Emergency Fund", TargetAmount: amt("10000"), CurrentAmount: amt("4500"), Color: "#22c55e"},
		{ID: "goal-3", Name: "New Laptop", TargetAmount: amt("1500"), CurrentAmount: amt("800"), TargetDate: &laptop, Color: "#9b87f5"},
	}

	budgets := []core.Budget{{
		ID: "budget-1", Month: 5, Year: 2025,
		Categories: []core.BudgetCategory{
			{CategoryID: "cat-1", Allocated: amt("1200")},
			{CategoryID: "cat-5", Allocated: amt("100")},
			{CategoryID: "cat-8", Allocated: amt("150")},
			{CategoryID: "cat-7", Allocated: amt("100")},
			{CategoryID: "cat-6", Allocated: amt("300")},
		},
	}}

	now := time.Now().UTC()
	notifications := []core.Notification{
		{ID: "notif-1", Type: core.NotificationInsight, Message: "Your spending on dining out has increased by 30% compared to last month.", Date: now},
		{ID: "notif-2", Type: core.NotificationBill, Message: "You have 3 bills due within the next 7 days totaling ₹285.", Date: now},
		{ID: "notif-3", Type: core.NotificationInsight, Message: "Based on your spending habits, you could save ₹150 more each month by reducing entertainment expenses.", Date: now},
		{ID: "notif-4", Type: core.NotificationInsight, Message: "Based on your history, we expect you'll need to pay for car insurance next month (~₹180).", Date: now},
	}

	return State{
		UserID:        userID,
		Accounts:      accounts,
		Transactions:  transactions,
		Categories:    categories,
		Bills:         bills,
		Goals:         goals,
		Budgets:       budgets,
		Notifications: notifications,
		Preferences:   core.DefaultPreferences(),
	}
}
