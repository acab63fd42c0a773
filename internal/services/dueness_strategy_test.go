package services

import (
	"testing"
	"time"

	"moneyx/internal/core"
)

func date(y, m, d int) time.Time { return core.NewDate(y, m, d) }

func TestPeriodStrategies_NextDue(t *testing.T) {
	tests := []struct {
		name   string
		period core.RepetitionTypes
		due    time.Time
		want   time.Time
	}{
		{"daily", core.Daily, date(2025, 5, 31), date(2025, 6, 1)},
		{"weekly across month", core.Weekly, date(2025, 5, 28), date(2025, 6, 4)},
		{"monthly keeps day", core.Monthly, date(2025, 5, 15), date(2025, 6, 15)},
		{"monthly clamps to february", core.Monthly, date(2025, 1, 31), date(2025, 2, 28)},
		{"monthly leap february", core.Monthly, date(2024, 1, 30), date(2024, 2, 29)},
		{"monthly stays on month end", core.Monthly, date(2025, 2, 28), date(2025, 3, 31)},
		{"monthly across year", core.Monthly, date(2025, 12, 10), date(2026, 1, 10)},
		{"yearly", core.Yearly, date(2025, 3, 5), date(2026, 3, 5)},
		{"yearly leap day", core.Yearly, date(2024, 2, 29), date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := GetPeriodStrategy(tt.period)
			if err != nil {
				t.Fatalf("GetPeriodStrategy() error = %v", err)
			}
			if got := s.NextDue(tt.due); !got.Equal(tt.want) {
				t.Errorf("NextDue(%s) = %s, want %s", tt.due.Format(time.DateOnly), got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
		})
	}
}

func TestGetPeriodStrategy_Unknown(t *testing.T) {
	if _, err := GetPeriodStrategy("fortnightly"); err == nil {
		t.Error("expected error for unknown period")
	}
}

type fixedStrategy struct{ days int }

func (f fixedStrategy) NextDue(due time.Time) time.Time { return due.AddDate(0, 0, f.days) }

func TestRegisterPeriodStrategy(t *testing.T) {
	const fortnightly core.RepetitionTypes = "fortnightly"
	RegisterPeriodStrategy(fortnightly, fixedStrategy{days: 14})
	t.Cleanup(func() { delete(periodStrategies, fortnightly) })

	next, err := NextDueDate(core.Bill{DueDate: date(2025, 5, 1), Period: fortnightly})
	if err != nil {
		t.Fatalf("NextDueDate() error = %v", err)
	}
	if !next.Equal(date(2025, 5, 15)) {
		t.Errorf("NextDueDate() = %s", next)
	}
}

func TestNextDueDate_DefaultsToMonthly(t *testing.T) {
	next, err := NextDueDate(core.Bill{DueDate: date(2025, 5, 20)})
	if err != nil || !next.Equal(date(2025, 6, 20)) {
		t.Errorf("NextDueDate() = %s, %v", next, err)
	}
}

func TestIsDueForRollover(t *testing.T) {
	now := time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		bill core.Bill
		want bool
	}{
		{"paid recurring due today", core.Bill{IsRecurring: true, IsPaid: true, DueDate: date(2025, 5, 10)}, true},
		{"paid recurring overdue", core.Bill{IsRecurring: true, IsPaid: true, DueDate: date(2025, 5, 1)}, true},
		{"paid recurring not yet due", core.Bill{IsRecurring: true, IsPaid: true, DueDate: date(2025, 5, 11)}, false},
		{"unpaid", core.Bill{IsRecurring: true, DueDate: date(2025, 5, 1)}, false},
		{"one-off", core.Bill{IsPaid: true, DueDate: date(2025, 5, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDueForRollover(tt.bill, now); got != tt.want {
				t.Errorf("IsDueForRollover() = %v, want %v", got, tt.want)
			}
		})
	}
}
