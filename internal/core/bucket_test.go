package core

import (
	"testing"
	"time"
)

// Wednesday; ISO week 3 of 2025 runs Monday Jan 13 to Sunday Jan 19.
var refNow = time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want Bucket
	}{
		{"same instant", refNow, BucketToday},
		{"start of today", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), BucketToday},
		{"later today", time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC), BucketToday},
		{"yesterday", time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC), BucketThisWeek},
		{"monday of this week", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), BucketThisWeek},
		{"future in same week", time.Date(2025, 1, 19, 8, 0, 0, 0, time.UTC), BucketThisWeek},
		{"previous sunday", time.Date(2025, 1, 12, 23, 0, 0, 0, time.UTC), BucketOlder},
		{"next monday", time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC), BucketOlder},
		{"same week number last year", time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC), BucketOlder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.date, refNow); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestClassifyISOWeekAcrossYearBoundary(t *testing.T) {
	// Wednesday Jan 1 2025 belongs to ISO week 1 of 2025, which starts on
	// Monday Dec 30 2024.
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := Classify(time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC), now); got != BucketThisWeek {
		t.Fatalf("Dec 30 2024 should be ThisWeek, got %v", got)
	}
	if got := Classify(time.Date(2024, 12, 29, 9, 0, 0, 0, time.UTC), now); got != BucketOlder {
		t.Fatalf("Dec 29 2024 should be Older, got %v", got)
	}
}

func TestClassifyUsesLocationOfNow(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, tokyo)
	// 23:30 UTC on Jan 14 is 08:30 on Jan 15 in Tokyo.
	date := time.Date(2025, 1, 14, 23, 30, 0, 0, time.UTC)
	if got := Classify(date, now); got != BucketToday {
		t.Fatalf("expected Today in Tokyo, got %v", got)
	}
	if got := Classify(date, now.In(time.UTC)); got != BucketThisWeek {
		t.Fatalf("expected ThisWeek in UTC, got %v", got)
	}
}

func TestClassifyIsExhaustiveAndExclusive(t *testing.T) {
	start := refNow.AddDate(0, 0, -40)
	var records []Expense
	for i := 0; i < 80*4; i++ {
		records = append(records, expense("", "x", CategoryOther, "1", start.Add(time.Duration(i)*6*time.Hour)))
	}

	b := GroupByBucket(records, refNow)
	if b.Len() != len(records) {
		t.Fatalf("buckets hold %d records, want %d", b.Len(), len(records))
	}
	for _, r := range b.Today {
		if Classify(r.Date, refNow) != BucketToday {
			t.Fatalf("%v misplaced in Today", r.Date)
		}
	}
	for _, r := range b.ThisWeek {
		if Classify(r.Date, refNow) != BucketThisWeek {
			t.Fatalf("%v misplaced in ThisWeek", r.Date)
		}
	}
	for _, r := range b.Older {
		if Classify(r.Date, refNow) != BucketOlder {
			t.Fatalf("%v misplaced in Older", r.Date)
		}
	}
}

func TestBucketString(t *testing.T) {
	if BucketToday.String() != "Today" || BucketThisWeek.String() != "This Week" || BucketOlder.String() != "Older" {
		t.Fatalf("unexpected bucket names")
	}
	if Bucket(9).String() != "Unknown" {
		t.Fatalf("out of range bucket should be Unknown")
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), -1, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), -1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), -3, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 2, 10, 7, 5, 0, 0, time.UTC), -3, time.Date(2024, 11, 10, 7, 5, 0, 0, time.UTC)},
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := AddMonths(tt.in, tt.n); !got.Equal(tt.want) {
			t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
		}
	}
}
