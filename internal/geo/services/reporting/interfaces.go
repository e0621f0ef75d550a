package reporting

import "github.com/haukened/geofence/internal/geo/domain"

// CounterStore is the slice of the counter repository reporting needs.
type CounterStore interface {
	Window(dates []domain.Date) ([]domain.DayBucket, error)
	Delete(date domain.Date) error
}

// ActivityStore is the slice of the activity repository reporting needs.
type ActivityStore interface {
	All() ([]domain.ActivityEntry, error)
	Clear() error
}

// Purger is optionally implemented by caching counter stores; ClearAll
// calls it so stale buckets do not survive a bulk delete.
type Purger interface {
	Purge()
}
