// Package memstore provides mutex-guarded in-memory implementations of the
// counter and activity stores, for tests and embedded use.
package memstore

import (
	"sync"

	"github.com/haukened/geofence/internal/geo/domain"
	"github.com/haukened/geofence/internal/geo/repos/activity"
	"github.com/haukened/geofence/internal/geo/repos/counter"
)

// Counters is an in-memory counter.Store.
type Counters struct {
	mu      sync.Mutex
	buckets map[domain.Date]domain.DayBucket
}

var _ counter.Store = (*Counters)(nil)

// NewCounters returns an empty in-memory counter store.
func NewCounters() *Counters {
	return &Counters{buckets: make(map[domain.Date]domain.DayBucket)}
}

func (c *Counters) Increment(date domain.Date, country string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buckets[date]
	if !ok {
		b = domain.DayBucket{}
		c.buckets[date] = b
	}
	b[country]++
	return nil
}

func (c *Counters) Window(dates []domain.Date) ([]domain.DayBucket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.DayBucket, len(dates))
	for i, d := range dates {
		day := domain.DayBucket{}
		for code, n := range c.buckets[d] {
			day[code] = n
		}
		out[i] = day
	}
	return out, nil
}

func (c *Counters) Delete(date domain.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buckets, date)
	return nil
}

func (c *Counters) Close() error { return nil }

// Log is an in-memory activity.Store.
type Log struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

var _ activity.Store = (*Log)(nil)

// NewLog returns an empty in-memory activity log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) Prepend(entry domain.ActivityEntry, capacity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]domain.ActivityEntry{entry}, l.entries...)
	if len(l.entries) > capacity {
		l.entries = l.entries[:capacity]
	}
	return nil
}

func (l *Log) All() ([]domain.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	return nil
}

func (l *Log) Close() error { return nil }
