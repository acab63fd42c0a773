// Package services holds the background jobs that run on top of the ledger.
//
// This file implements the Strategy Pattern for recurring bill periods.
// Each period (daily, weekly, monthly, yearly) has its own strategy that
// computes the next due date of a bill once the current one has been paid.

package services

import (
	"fmt"
	"time"

	"moneyx/internal/core"
)

// PeriodStrategy advances a recurring bill by one period.
type PeriodStrategy interface {
	// NextDue returns the due date of the period following the one due on due.
	NextDue(due time.Time) time.Time
}

// DailyStrategy implements PeriodStrategy for daily bills.
type DailyStrategy struct{}

func (DailyStrategy) NextDue(due time.Time) time.Time {
	return due.AddDate(0, 0, 1)
}

// WeeklyStrategy implements PeriodStrategy for weekly bills.
type WeeklyStrategy struct{}

func (WeeklyStrategy) NextDue(due time.Time) time.Time {
	return due.AddDate(0, 0, 7)
}

// MonthlyStrategy implements PeriodStrategy for monthly bills.
//
// The day of month is kept when the next month has it and clamped to the
// last day otherwise. A bill due on the last day of a month stays on the
// last day, so Jan 31 goes to Feb 28 and then back to Mar 31.
type MonthlyStrategy struct{}

func (MonthlyStrategy) NextDue(due time.Time) time.Time {
	return addMonths(due, 1)
}

// YearlyStrategy implements PeriodStrategy for yearly bills. Feb 29 falls
// back to Feb 28 in common years.
type YearlyStrategy struct{}

func (YearlyStrategy) NextDue(due time.Time) time.Time {
	return addMonths(due, 12)
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := lastDayOfMonth(target)
	if d > last || d == lastDayOfMonth(t) {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// periodStrategies maps repetition types to their corresponding strategies.
var periodStrategies = map[core.RepetitionTypes]PeriodStrategy{
	core.Daily:   DailyStrategy{},
	core.Weekly:  WeeklyStrategy{},
	core.Monthly: MonthlyStrategy{},
	core.Yearly:  YearlyStrategy{},
}

// GetPeriodStrategy returns the strategy for a repetition type.
func GetPeriodStrategy(period core.RepetitionTypes) (PeriodStrategy, error) {
	s, ok := periodStrategies[period]
	if !ok {
		return nil, fmt.Errorf("unknown repetition type: %q", period)
	}
	return s, nil
}

// RegisterPeriodStrategy registers a strategy for a new repetition type.
func RegisterPeriodStrategy(period core.RepetitionTypes, s PeriodStrategy) {
	periodStrategies[period] = s
}

// IsDueForRollover reports whether a paid recurring bill should open its
// next period: its current due date has arrived.
func IsDueForRollover(b core.Bill, now time.Time) bool {
	if !b.IsRecurring || !b.IsPaid {
		return false
	}
	return core.DaysBetween(now, b.DueDate) <= 0
}

// NextDueDate computes the next due date of b from its period. Bills
// without a period are treated as monthly.
func NextDueDate(b core.Bill) (time.Time, error) {
	period := b.Period
	if period == "" {
		period = core.Monthly
	}
	s, err := GetPeriodStrategy(period)
	if err != nil {
		return time.Time{}, err
	}
	return s.NextDue(b.DueDate), nil
}
