// Package reporting aggregates denial counters and the activity log into
// operator-facing summaries, searches, and the bulk-clear maintenance
// operation. All reads treat missing state as empty.
package reporting

import (
	"math"

	"github.com/haukened/geofence/internal/geo/common/countries"
	"github.com/haukened/geofence/internal/geo/common/log"
)

// Service exposes the read-only reporting surface plus ClearAll.
type Service struct {
	counters CounterStore
	activity ActivityStore
	nameFor  func(code string) string
	logger   log.Logger
}

// ServiceOptions carries the dependencies for NewService.
type ServiceOptions struct {
	Counters CounterStore
	Activity ActivityStore
	NameFor  func(code string) string // country display names; nil uses the built-in catalog
	Logger   log.Logger
}

// NewService constructs a reporting Service.
func NewService(opts ServiceOptions) *Service {
	nameFor := opts.NameFor
	if nameFor == nil {
		nameFor = countries.Name
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Service{
		counters: opts.Counters,
		activity: opts.Activity,
		nameFor:  nameFor,
		logger:   logger,
	}
}

// round1 rounds to one decimal place, half away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// roundPct rounds to the nearest whole percent, half away from zero.
func roundPct(x float64) int {
	return int(math.Round(x))
}
