package core

import "time"

// Calendar arithmetic is done in the location of the reference instant. Record
// dates are converted into that location before they are compared, so a
// record stored in UTC still lands on the viewer's local day.

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// SameISOWeek reports whether a and b share the ISO-8601 (year, week) pair in
// loc. Weeks start on Monday.
func SameISOWeek(a, b time.Time, loc *time.Location) bool {
	ay, aw := a.In(loc).ISOWeek()
	by, bw := b.In(loc).ISOWeek()
	return ay == by && aw == bw
}

// SameMonth reports whether a and b share the (year, month) pair in loc.
func SameMonth(a, b time.Time, loc *time.Location) bool {
	ay, am, _ := a.In(loc).Date()
	by, bm, _ := b.In(loc).Date()
	return ay == by && am == bm
}

// AddMonths moves t by n calendar months, clamping the day to the last day of
// the target month instead of overflowing into the next one (March 31 minus
// one month is February 28 or 29, not March 3).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
