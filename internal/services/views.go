package services

import (
	"fmt"
	"strings"
	"time"

	"spendlog/internal/core"
)

const (
	EmptyNoExpenses = "No expenses yet. Tap + to add your first expense."
	EmptyNoMatches  = "No expenses found for this filter."
)

type AnalyticsMode string

const (
	AnalyticsModeDaily    AnalyticsMode = "daily"
	AnalyticsModeCategory AnalyticsMode = "category"
)

// ParseAnalyticsMode maps a query value to a mode. The empty string selects
// the daily chart.
func ParseAnalyticsMode(s string) (AnalyticsMode, error) {
	switch AnalyticsMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AnalyticsModeDaily:
		return AnalyticsModeDaily, nil
	case AnalyticsModeCategory:
		return AnalyticsModeCategory, nil
	default:
		return "", fmt.Errorf("%w: unknown analytics mode %q", core.ErrInvalidInput, s)
	}
}

// ExpenseList is the listing screen: the summary card plus the filtered
// records split into recency sections, newest first.
type ExpenseList struct {
	Summary      core.Summary
	Filter       core.Filter
	Sections     core.Buckets
	Empty        bool
	EmptyMessage string
}

// AnalyticsView is the chart screen for one period.
type AnalyticsView struct {
	Period         core.Period
	Mode           AnalyticsMode
	Summary        core.Summary
	DailyTotals    []core.DailyTotal
	CategoryTotals []core.CategoryTotal
	Empty          bool
}

// ViewService derives screen models from store snapshots.
type ViewService struct {
	store ExpenseStore
}

func NewViewService(store ExpenseStore) *ViewService {
	return &ViewService{store: store}
}

// ListView builds the listing screen for filter as seen from now. The summary
// ignores the filter.
func (v *ViewService) ListView(filter core.Filter, now time.Time) ExpenseList {
	return BuildList(v.store.Snapshot(core.OrderDescending), filter, now)
}

// Analytics builds the chart screen for period as seen from now.
func (v *ViewService) Analytics(period core.Period, mode AnalyticsMode, now time.Time) AnalyticsView {
	return BuildAnalytics(v.store.Snapshot(core.OrderAscending), period, mode, now)
}

// BuildList is ListView over an explicit descending snapshot. The stream
// endpoint uses it on every observed snapshot.
func BuildList(snapshot []core.Expense, filter core.Filter, now time.Time) ExpenseList {
	filtered := filter.Apply(snapshot)

	list := ExpenseList{
		Summary:  core.Summarize(snapshot, now),
		Filter:   filter,
		Sections: core.GroupByBucket(filtered, now),
		Empty:    len(filtered) == 0,
	}
	if list.Empty {
		if filter.IsActive() {
			list.EmptyMessage = EmptyNoMatches
		} else {
			list.EmptyMessage = EmptyNoExpenses
		}
	}
	return list
}

// BuildAnalytics is Analytics over an explicit ascending snapshot.
func BuildAnalytics(snapshot []core.Expense, period core.Period, mode AnalyticsMode, now time.Time) AnalyticsView {
	inPeriod := core.FilterByPeriod(snapshot, period, now)

	view := AnalyticsView{
		Period:         period,
		Mode:           mode,
		Summary:        core.Summarize(inPeriod, now),
		DailyTotals:    []core.DailyTotal{},
		CategoryTotals: []core.CategoryTotal{},
		Empty:          len(inPeriod) == 0,
	}
	switch mode {
	case AnalyticsModeCategory:
		view.CategoryTotals = core.CategoryTotals(inPeriod)
	default:
		view.DailyTotals = core.DailyTotals(inPeriod, now.Location())
	}
	return view
}
