package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotal is the amount spent on one calendar day.
type DailyTotal struct {
	Day   time.Time
	Total decimal.Decimal
}

// CategoryTotal is the amount spent under one category label.
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// Summary is the always-visible card on the listing screen. It is computed
// over the unfiltered snapshot.
type Summary struct {
	Total     decimal.Decimal
	ThisMonth decimal.Decimal
	Today     decimal.Decimal
	Count     int
}

// Total sums every amount in records.
func Total(records []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// TodayTotal sums the amounts of the records classified BucketToday.
func TodayTotal(records []Expense, now time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		if Classify(r.Date, now) == BucketToday {
			sum = sum.Add(r.Amount)
		}
	}
	return sum
}

// DailyTotals groups records by their start of day in loc, one entry per day
// present, sorted by day ascending.
func DailyTotals(records []Expense, loc *time.Location) []DailyTotal {
	index := make(map[time.Time]int)
	out := make([]DailyTotal, 0)
	for _, r := range records {
		day := StartOfDay(r.Date, loc)
		if i, ok := index[day]; ok {
			out[i].Total = out[i].Total.Add(r.Amount)
			continue
		}
		index[day] = len(out)
		out = append(out, DailyTotal{Day: day, Total: r.Amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// CategoryTotals groups records by their literal category label and sorts the
// groups by total, highest first. Groups with equal totals keep the order in
// which their label first appears in records.
func CategoryTotals(records []Expense) []CategoryTotal {
	index := make(map[Category]int)
	out := make([]CategoryTotal, 0)
	for _, r := range records {
		if i, ok := index[r.Category]; ok {
			out[i].Total = out[i].Total.Add(r.Amount)
			continue
		}
		index[r.Category] = len(out)
		out = append(out, CategoryTotal{Category: r.Category, Total: r.Amount})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}

// Summarize computes the summary card for records as seen from now.
func Summarize(records []Expense, now time.Time) Summary {
	return Summary{
		Total:     Total(records),
		ThisMonth: Total(FilterByPeriod(records, PeriodThisMonth, now)),
		Today:     TodayTotal(records, now),
		Count:     len(records),
	}
}

// SortByDate sorts records in place by date in the given order. Records with
// equal dates keep their relative order, so insertion order breaks ties in
// both directions.
func SortByDate(records []Expense, order Order) {
	sort.SliceStable(records, func(i, j int) bool {
		if order == OrderAscending {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Date.After(records[j].Date)
	})
}
