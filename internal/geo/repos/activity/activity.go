// Package activity defines the bounded, newest-first denial log store.
package activity

import "github.com/haukened/geofence/internal/geo/domain"

// Store is the persistence contract for the activity log.
//
// The log is ordered newest first. Implementations must make Prepend atomic
// with respect to concurrent callers so the capacity bound holds and no
// entry is lost to a read-modify-write race.
type Store interface {
	// Prepend inserts the entry at the head of the log and truncates the
	// log to at most capacity entries, dropping overflow from the tail.
	Prepend(entry domain.ActivityEntry, capacity int) error

	// All returns the full log, newest first. A missing log is returned
	// as empty, never as an error.
	All() ([]domain.ActivityEntry, error)

	// Clear removes the log entirely.
	Clear() error

	Close() error
}
