package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	PeriodAllTime     Period = "all"
	PeriodThisMonth   Period = "this_month"
	PeriodLastMonth   Period = "last_month"
	PeriodLast3Months Period = "last_3_months"
)

// Period is the analytics time window.
type Period string

var periods = []Period{PeriodAllTime, PeriodThisMonth, PeriodLastMonth, PeriodLast3Months}

// Periods returns every selectable period in display order.
func Periods() []Period {
	return append([]Period(nil), periods...)
}

// ParsePeriod maps a query value to a Period. The empty string selects
// PeriodThisMonth, which is what the analytics screen opens with.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodThisMonth, nil
	}
	for _, p := range periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrInvalidInput, s)
}

// Title is the label shown in the period picker.
func (p Period) Title() string {
	switch p {
	case PeriodAllTime:
		return "All Time"
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodLast3Months:
		return "Last 3 Months"
	default:
		return string(p)
	}
}

// Contains reports whether date falls inside the period as seen from now.
// An unknown period contains nothing.
func (p Period) Contains(date, now time.Time) bool {
	loc := now.Location()
	switch p {
	case PeriodAllTime:
		return true
	case PeriodThisMonth:
		return SameMonth(date, now, loc)
	case PeriodLastMonth:
		return SameMonth(date, AddMonths(now, -1), loc)
	case PeriodLast3Months:
		start := StartOfDay(AddMonths(now, -3), loc)
		return !date.Before(start) && !date.After(now)
	default:
		return false
	}
}

// FilterByPeriod keeps the records inside p, preserving order.
func FilterByPeriod(records []Expense, p Period, now time.Time) []Expense {
	out := make([]Expense, 0, len(records))
	for _, r := range records {
		if p.Contains(r.Date, now) {
			out = append(out, r)
		}
	}
	return out
}
