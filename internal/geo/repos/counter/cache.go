package counter

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/geofence/internal/geo/common/clock"
	"github.com/haukened/geofence/internal/geo/domain"
)

// Cached wraps a Store with an LRU over buckets for dates strictly before
// the clock's current date. Past buckets are read-only history, so they can
// be served from memory; the current date's bucket is always reloaded
// because it is still accumulating.
type Cached struct {
	inner Store
	clk   clock.Clock
	lru   *lru.Cache[domain.Date, domain.DayBucket]
}

// NewCached returns a caching wrapper of the given size around inner.
func NewCached(inner Store, clk clock.Clock, size int) (*Cached, error) {
	c, err := lru.New[domain.Date, domain.DayBucket](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, clk: clk, lru: c}, nil
}

// Increment passes through and invalidates the date's cached bucket.
func (c *Cached) Increment(date domain.Date, country string) error {
	if err := c.inner.Increment(date, country); err != nil {
		return err
	}
	c.lru.Remove(date)
	return nil
}

// Window serves past dates from the cache where possible and loads the rest
// from the underlying store, caching any newly loaded past buckets.
func (c *Cached) Window(dates []domain.Date) ([]domain.DayBucket, error) {
	today := domain.DateOf(c.clk.Now())

	out := make([]domain.DayBucket, len(dates))
	var missing []domain.Date
	var missingIdx []int
	for i, d := range dates {
		if d != today {
			if b, ok := c.lru.Get(d); ok {
				out[i] = b
				continue
			}
		}
		missing = append(missing, d)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		loaded, err := c.inner.Window(missing)
		if err != nil {
			return nil, err
		}
		for j, b := range loaded {
			out[missingIdx[j]] = b
			if missing[j] != today {
				c.lru.Add(missing[j], b)
			}
		}
	}
	return out, nil
}

// Delete passes through and invalidates the date's cached bucket.
func (c *Cached) Delete(date domain.Date) error {
	if err := c.inner.Delete(date); err != nil {
		return err
	}
	c.lru.Remove(date)
	return nil
}

// Purge drops every cached bucket.
func (c *Cached) Purge() {
	c.lru.Purge()
}

// Close closes the underlying store.
func (c *Cached) Close() error {
	return c.inner.Close()
}
