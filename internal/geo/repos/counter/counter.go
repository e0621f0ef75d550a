// Package counter defines the per-day denial counter store. Buckets are
// keyed by calendar date and map country code to a non-negative count.
package counter

import "github.com/haukened/geofence/internal/geo/domain"

// Store is the persistence contract for day buckets.
//
// Implementations must make Increment atomic with respect to concurrent
// callers for the same date; the read-modify-write must not lose updates.
type Store interface {
	// Increment adds one to the country's count in the date's bucket,
	// creating the bucket or the entry as needed.
	Increment(date domain.Date, country string) error

	// Window loads one bucket per date, in the given order. Missing
	// buckets are returned as empty, never as an error.
	Window(dates []domain.Date) ([]domain.DayBucket, error)

	// Delete removes the bucket for the date. Deleting a missing bucket
	// is not an error.
	Delete(date domain.Date) error

	Close() error
}
