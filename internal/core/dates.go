package core

import (
	"strings"
	"time"
)

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole number of days from `from` to `to`, both
// truncated to midnight first so time of day never shifts the result.
func DaysBetween(from, to time.Time) int {
	a := DayStart(from)
	b := DayStart(to.In(from.Location()))
	// Go through calendar dates rather than durations so DST days count as one.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// InMonth reports whether t falls in the given calendar month (1-12) and year.
func InMonth(t time.Time, month, year int) bool {
	return t.Year() == year && int(t.Month()) == month
}

// PreviousMonth returns the month and year before the given one.
func PreviousMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// NewDate creates a UTC midnight date from year, month, day.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DateLayout turns a preference such as "MM/DD/YYYY" into a time layout.
// Unknown characters are kept as literals.
func DateLayout(pref string) string {
	if pref == "" {
		pref = DefaultPreferences().DateFormat
	}
	r := strings.NewReplacer("YYYY", "2006", "YY", "06", "MM", "01", "DD", "02")
	return r.Replace(strings.ToUpper(pref))
}
