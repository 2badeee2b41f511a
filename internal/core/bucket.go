package core

import "time"

const (
	BucketToday Bucket = iota
	BucketThisWeek
	BucketOlder
)

// Bucket is the relative-recency section an expense is listed under.
type Bucket int

var bucketNames = [...]string{"Today", "This Week", "Older"}

func (b Bucket) String() string {
	if b < BucketToday || b > BucketOlder {
		return "Unknown"
	}
	return bucketNames[b]
}

// Classify places date relative to now. Exactly one bucket is returned.
//
// A date later than now is classified the same way as an earlier one: a
// future expense in the current ISO week is ThisWeek, one later today is
// Today.
func Classify(date, now time.Time) Bucket {
	loc := now.Location()
	switch {
	case SameDay(date, now, loc):
		return BucketToday
	case SameISOWeek(date, now, loc):
		return BucketThisWeek
	default:
		return BucketOlder
	}
}

// Buckets holds a snapshot split into its recency sections. Each section keeps
// the order of the input.
type Buckets struct {
	Today    []Expense
	ThisWeek []Expense
	Older    []Expense
}

// Len returns the number of expenses across all sections.
func (b Buckets) Len() int {
	return len(b.Today) + len(b.ThisWeek) + len(b.Older)
}

// GroupByBucket splits records into recency sections relative to now.
func GroupByBucket(records []Expense, now time.Time) Buckets {
	var out Buckets
	for _, r := range records {
		switch Classify(r.Date, now) {
		case BucketToday:
			out.Today = append(out.Today, r)
		case BucketThisWeek:
			out.ThisWeek = append(out.ThisWeek, r)
		default:
			out.Older = append(out.Older, r)
		}
	}
	return out
}
