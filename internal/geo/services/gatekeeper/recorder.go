package gatekeeper

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/haukened/geofence/internal/geo/common/clock"
	"github.com/haukened/geofence/internal/geo/common/log"
	"github.com/haukened/geofence/internal/geo/domain"
)

// Recorder persists denial events: one counter increment and one activity
// log prepend per denial. It performs no deduplication; invoking it twice
// for the same request double-counts.
type Recorder struct {
	counters CounterStore
	activity ActivityStore
	clk      clock.Clock
	logger   log.Logger
	capacity int
}

// RecorderOptions carries the dependencies for NewRecorder.
type RecorderOptions struct {
	Counters CounterStore
	Activity ActivityStore
	Clock    clock.Clock
	Logger   log.Logger
	Capacity int // activity log bound; 0 means domain.LogCapacity
}

// NewRecorder constructs a Recorder.
func NewRecorder(opts RecorderOptions) *Recorder {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = domain.LogCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Recorder{
		counters: opts.Counters,
		activity: opts.Activity,
		clk:      opts.Clock,
		logger:   logger,
		capacity: capacity,
	}
}

// RecordDenial writes the denial into both stores. The counter and the log
// are independent failure domains: both writes are always attempted, and
// any errors are combined into the returned recording failure. Callers must
// still serve the deny response when recording fails.
func (r *Recorder) RecordDenial(country string, meta domain.RequestMetadata) error {
	now := r.clk.Now()
	today := domain.DateOf(now)

	var errs error
	if err := r.counters.Increment(today, country); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("increment %s/%s: %w", today, country, err))
	}

	entry := domain.NewActivityEntry(now, country, meta)
	if err := r.activity.Prepend(entry, r.capacity); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("append activity: %w", err))
	}

	if errs != nil {
		return fmt.Errorf("recording denial: %w", errs)
	}

	r.logger.Debug(map[string]any{
		"country": country,
		"ip":      entry.IP,
		"path":    entry.Path,
	}, "Denial recorded")
	return nil
}
