package core

import (
	"errors"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/shopspring/decimal"
)

const (
	Checking   AccountType = "Checking"
	Savings    AccountType = "Savings"
	Credit     AccountType = "Credit"
	Investment AccountType = "Investment"
	Cash       AccountType = "Cash"
	Other      AccountType = "Other"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Daily   RepetitionTypes = "daily"
	Weekly  RepetitionTypes = "weekly"
	Monthly RepetitionTypes = "monthly"
	Yearly  RepetitionTypes = "yearly"
)

const (
	NotificationBill        NotificationType = "bill"
	NotificationBalance     NotificationType = "balance"
	NotificationTransaction NotificationType = "transaction"
	NotificationInsight     NotificationType = "insight"
)

type (
	AccountType      string
	TransactionType  string
	CategoryType     = TransactionType
	RepetitionTypes  string
	NotificationType string

	Account struct {
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		Type    AccountType     `json:"type"`
		Balance decimal.Decimal `json:"balance"`
		UserID  string          `json:"userId"`
		Color   string          `json:"color,omitempty"`
	}

	// Transaction is a single posting against one account. The category is
	// referenced by id only; readers join it through TransactionView.
	Transaction struct {
		ID               string          `json:"id"`
		Date             time.Time       `json:"date"`
		Amount           decimal.Decimal `json:"amount"`
		Description      string          `json:"description"`
		CategoryID       string          `json:"categoryId"`
		AccountID        string          `json:"accountId"`
		Type             TransactionType `json:"type"`
		IsRecurring      bool            `json:"isRecurring,omitempty"`
		CounterAccountID string          `json:"counterAccountId,omitempty"`
		Fee              decimal.Decimal `json:"fee"`
		TransferID       string          `json:"transferId,omitempty"`
		GoalID           string          `json:"goalId,omitempty"` // set on savings contributions
		Tags             []string        `json:"tags,omitempty"`
	}

	// TransactionView is a transaction joined with its category.
	TransactionView struct {
		Transaction
		Category Category `json:"category"`
	}

	Category struct {
		ID    string       `json:"id"`
		Name  string       `json:"name"`
		Type  CategoryType `json:"type"`
		Color string       `json:"color"`
	}

	Bill struct {
		ID                string          `json:"id"`
		Name              string          `json:"name"`
		Amount            decimal.Decimal `json:"amount"`
		DueDate           time.Time       `json:"dueDate"`
		IsRecurring       bool            `json:"isRecurring"`
		Period            RepetitionTypes `json:"period,omitempty"`
		CategoryID        string          `json:"categoryId,omitempty"`
		AccountID         string          `json:"accountId,omitempty"`
		IsPaid            bool            `json:"isPaid"`
		PaidTransactionID string          `json:"paidTransactionId,omitempty"`
	}

	SavingsGoal struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		TargetDate    *time.Time      `json:"targetDate,omitempty"`
		Color         string          `json:"color,omitempty"`
	}

	BudgetCategory struct {
		CategoryID string          `json:"categoryId"`
		Allocated  decimal.Decimal `json:"allocated"`
	}

	// Budget holds allocations only. Spent amounts are derived from
	// transactions at read time.
	Budget struct {
		ID         string           `json:"id"`
		Month      int              `json:"month"` // 1-12
		Year       int              `json:"year"`
		Categories []BudgetCategory `json:"categories"`
	}

	Notification struct {
		ID      string           `json:"id"`
		Type    NotificationType `json:"type"`
		Message string           `json:"message"`
		Read    bool             `json:"read"`
		Date    time.Time        `json:"date"`
	}

	NotificationSettings struct {
		LowBalance        bool `json:"lowBalance"`
		BillReminders     bool `json:"billReminders"`
		LargeTransactions bool `json:"largeTransactions"`
		WeeklySummary     bool `json:"weeklySummary"`
		AIInsights        bool `json:"aiInsights"`
	}

	Preferences struct {
		Currency      string               `json:"currency"`
		DateFormat    string               `json:"dateFormat"`
		DarkMode      bool                 `json:"darkMode"`
		Notifications NotificationSettings `json:"notifications"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPeriod    = errors.New("invalid repetition period")
	ErrInvalidColor     = errors.New("invalid color, expected #rrggbb")
)

// validColor accepts an empty color or a hex color.
func validColor(s string) bool {
	if s == "" {
		return true
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// DefaultPreferences returns the preferences a fresh session starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Currency:   "INR",
		DateFormat: "MM/DD/YYYY",
		DarkMode:   false,
		Notifications: NotificationSettings{
			LowBalance:        true,
			BillReminders:     true,
			LargeTransactions: true,
			WeeklySummary:     false,
			AIInsights:        true,
		},
	}
}

func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit, Investment, Cash, Other:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (r RepetitionTypes) IsValid() bool {
	switch r {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidType
	}
	if !validColor(a.Color) {
		return ErrInvalidColor
	}
	return nil
}

// Validate checks the fields of a transaction. Referenced ids are checked
// by the ledger against the store.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if t.Fee.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Posting returns the signed balance effect of the transaction on its
// account. A transfer leg moved exactly its signed amount; a transfer-typed
// transaction outside a transfer pair moved nothing.
func (t Transaction) Posting() decimal.Decimal {
	switch t.Type {
	case Income:
		return t.Amount
	case Expense:
		return t.Amount.Abs().Neg()
	case Transfer:
		if t.TransferID != "" {
			return t.Amount
		}
	}
	return decimal.Zero
}

// IsContribution reports whether t moved money into a savings goal.
func (t Transaction) IsContribution() bool {
	return t.GoalID != ""
}

// IsTransferLeg reports whether t is one half of a transfer pair.
func (t Transaction) IsTransferLeg() bool {
	return t.Type == Transfer && t.TransferID != ""
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Type != Income && c.Type != Expense {
		return ErrInvalidType
	}
	if !validColor(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if b.DueDate.IsZero() {
		return ErrInvalidDate
	}
	if b.Period != "" && !b.Period.IsValid() {
		return ErrInvalidPeriod
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if !validColor(g.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1 {
		return ErrInvalidDate
	}
	for _, c := range b.Categories {
		if c.Allocated.IsNegative() {
			return ErrInvalidAmount
		}
	}
	return nil
}

// TotalAllocated sums the allocation of every budget line.
func (b Budget) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Categories {
		total = total.Add(c.Allocated)
	}
	return total
}
