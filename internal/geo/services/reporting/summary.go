package reporting

import (
	"fmt"
	"sort"

	"github.com/haukened/geofence/internal/geo/domain"
)

// Summarize aggregates the trailing window of windowDays calendar dates
// ending at ref, most recent first.
//
// Numeric semantics: percentages round half away from zero to whole
// numbers, the daily average to one decimal. Division by zero never occurs:
// with no non-zero days the average is 0, and a zero previous week yields a
// +100% trend when the recent week is positive, 0% otherwise.
func (s *Service) Summarize(ref domain.Date, windowDays int) (domain.Summary, error) {
	if windowDays < 1 {
		windowDays = domain.DefaultWindowDays
	}
	dates := domain.Window(ref, windowDays)

	buckets, err := s.counters.Window(dates)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("load window: %w", err)
	}

	sum := domain.Summary{
		ReferenceDate: ref,
		WindowDays:    windowDays,
	}

	dailyTotals := make([]int, len(dates))
	countryTotals := make(map[string]int)
	for i, b := range buckets {
		for code, n := range b {
			countryTotals[code] += n
			sum.GrandTotal += n
			dailyTotals[i] += n
		}
	}

	sum.TodayTotal = dailyTotals[0]
	if len(dailyTotals) > 1 {
		sum.Yesterday = dailyTotals[1]
	}
	sum.TodayDelta = sum.TodayTotal - sum.Yesterday

	daysWithData := 0
	for _, n := range dailyTotals {
		if n > 0 {
			daysWithData++
		}
	}
	if daysWithData > 0 {
		sum.DailyAverage = round1(float64(sum.GrandTotal) / float64(daysWithData))
	}

	// Dates run most recent first, so with a strict comparison the peak
	// closest to the reference wins ties.
	for i, n := range dailyTotals {
		if n > sum.PeakCount {
			sum.PeakCount = n
			sum.PeakDay = dates[i]
		}
	}

	sum.WeeklyTrend = weeklyTrend(dailyTotals)

	sum.Countries = rankCountries(countryTotals, sum.GrandTotal, s.nameFor)
	if len(sum.Countries) > 0 {
		sum.TopCountry = sum.Countries[0]
	}

	return sum, nil
}

// weeklyTrend compares the most recent 7 daily totals against the 7 before
// them. totals is ordered most recent first.
func weeklyTrend(totals []int) domain.Trend {
	recent, previous := 0, 0
	for i, n := range totals {
		switch {
		case i < 7:
			recent += n
		case i < 14:
			previous += n
		}
	}
	switch {
	case previous > 0:
		return domain.ClassifyTrend(roundPct(float64(recent-previous) / float64(previous) * 100))
	case recent > 0:
		return domain.ClassifyTrend(100)
	default:
		return domain.ClassifyTrend(0)
	}
}

// rankCountries orders totals descending by count, ascending by code on
// ties, resolving display names and per-country share of the grand total.
func rankCountries(totals map[string]int, grand int, nameFor func(string) string) []domain.CountryCount {
	if len(totals) == 0 {
		return nil
	}
	out := make([]domain.CountryCount, 0, len(totals))
	for code, n := range totals {
		cc := domain.CountryCount{Code: code, Name: nameFor(code), Count: n}
		if grand > 0 {
			cc.Share = round1(float64(n) / float64(grand) * 100)
		}
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}
