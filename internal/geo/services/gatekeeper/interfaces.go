package gatekeeper

import "github.com/haukened/geofence/internal/geo/domain"

// CounterStore is the slice of the counter repository the recorder needs.
type CounterStore interface {
	Increment(date domain.Date, country string) error
}

// ActivityStore is the slice of the activity repository the recorder needs.
type ActivityStore interface {
	Prepend(entry domain.ActivityEntry, capacity int) error
}
