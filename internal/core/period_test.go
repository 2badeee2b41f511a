package core

import (
	"testing"
	"time"
)

func TestPeriodContains(t *testing.T) {
	dec20 := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		date   time.Time
		want   bool
	}{
		{"all time keeps old", PeriodAllTime, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"all time keeps future", PeriodAllTime, refNow.AddDate(1, 0, 0), true},
		{"this month start", PeriodThisMonth, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"this month future day", PeriodThisMonth, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"this month excludes december", PeriodThisMonth, dec20, false},
		{"last month across year", PeriodLastMonth, dec20, true},
		{"last month excludes this month", PeriodLastMonth, refNow, false},
		{"last month excludes december a year earlier", PeriodLastMonth, time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC), false},
		{"last 3 months lower bound inclusive", PeriodLast3Months, time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC), true},
		{"last 3 months before bound", PeriodLast3Months, time.Date(2024, 10, 14, 23, 59, 59, 0, time.UTC), false},
		{"last 3 months includes now", PeriodLast3Months, refNow, true},
		{"last 3 months excludes later today", PeriodLast3Months, refNow.Add(time.Minute), false},
		{"unknown period", Period("weekly"), refNow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Contains(tt.date, refNow); got != tt.want {
				t.Errorf("%s.Contains(%v) = %v, want %v", tt.period, tt.date, got, tt.want)
			}
		})
	}
}

func TestLastMonthFromMarch31(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	if !PeriodLastMonth.Contains(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), now) {
		t.Fatalf("February should be last month from March 31")
	}
	if PeriodLastMonth.Contains(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), now) {
		t.Fatalf("March must not be last month from March 31")
	}
}

func TestParsePeriod(t *testing.T) {
	for _, p := range Periods() {
		got, err := ParsePeriod(string(p))
		if err != nil || got != p {
			t.Fatalf("round trip of %s failed: %v %v", p, got, err)
		}
	}
	if got, err := ParsePeriod(""); err != nil || got != PeriodThisMonth {
		t.Fatalf("empty should default to this month, got %v %v", got, err)
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
	if PeriodLast3Months.Title() != "Last 3 Months" {
		t.Fatalf("unexpected title %q", PeriodLast3Months.Title())
	}
}

func TestFilterByPeriod(t *testing.T) {
	records := []Expense{
		expense("1", "a", CategoryFood, "1", time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)),
		expense("2", "b", CategoryFood, "2", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
		expense("3", "c", CategoryFood, "3", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
	}
	got := FilterByPeriod(records, PeriodThisMonth, refNow)
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}
