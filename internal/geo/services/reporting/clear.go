package reporting

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/haukened/geofence/internal/geo/domain"
)

// ClearAll deletes the day buckets for windowDays dates ending at ref and
// the activity log in full. Irreversible; callers are expected to gate it
// behind an explicit confirmation.
//
// The operation is not transactional. Per-date deletions are independent:
// an individual failure does not stop the remaining deletes or the log
// clear, and all failures are combined into the returned error.
func (s *Service) ClearAll(ref domain.Date, windowDays int) error {
	if windowDays < 1 {
		windowDays = domain.DefaultWindowDays
	}

	var errs error
	for _, d := range domain.Window(ref, windowDays) {
		if err := s.counters.Delete(d); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete bucket %s: %w", d, err))
		}
	}

	if err := s.activity.Clear(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("clear activity log: %w", err))
	}

	if p, ok := s.counters.(Purger); ok {
		p.Purge()
	}

	if errs != nil {
		return fmt.Errorf("clear all: %w", errs)
	}

	s.logger.Info(map[string]any{
		"reference_date": ref,
		"window_days":    windowDays,
	}, "Statistics cleared")
	return nil
}
