package domain

import "time"

// dateLayout is the storage key format for day buckets.
const dateLayout = "2006-01-02"

// DefaultWindowDays is the trailing aggregation window used when a caller
// does not specify one.
const DefaultWindowDays = 30

// Date is a calendar date in YYYY-MM-DD form. Buckets are keyed by it.
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// AddDays returns the date n days after d (negative n goes backward).
// A malformed date is returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Window returns days consecutive dates ending at ref, ordered from ref
// backward (most recent first).
func Window(ref Date, days int) []Date {
	out := make([]Date, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, ref.AddDays(-i))
	}
	return out
}

// DayBucket maps country code to denial count for one calendar date.
// A nil bucket reads as empty.
type DayBucket map[string]int

// Total returns the sum of all per-country counts in the bucket.
func (b DayBucket) Total() int {
	total := 0
	for _, n := range b {
		total += n
	}
	return total
}
