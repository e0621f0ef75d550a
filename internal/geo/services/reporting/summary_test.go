package reporting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/geofence/internal/geo/domain"
	"github.com/haukened/geofence/internal/geo/repos/memstore"
)

const ref = domain.Date("2025-08-30")

func newTestService() (*Service, *memstore.Counters, *memstore.Log) {
	counters := memstore.NewCounters()
	activityLog := memstore.NewLog()
	svc := NewService(ServiceOptions{Counters: counters, Activity: activityLog})
	return svc, counters, activityLog
}

func seed(t *testing.T, c *memstore.Counters, date domain.Date, code string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, c.Increment(date, code))
	}
}

func TestSummarize_EmptyWindow(t *testing.T) {
	svc, _, _ := newTestService()

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.GrandTotal)
	assert.Equal(t, 0.0, sum.DailyAverage)
	assert.Empty(t, sum.PeakDay)
	assert.Equal(t, 0, sum.PeakCount)
	assert.Equal(t, 0, sum.WeeklyTrend.Percent)
	assert.Equal(t, domain.TrendFlat, sum.WeeklyTrend.Direction)
	assert.Empty(t, sum.Countries)
	assert.Equal(t, domain.CountryCount{}, sum.TopCountry)
}

func TestSummarize_TwoDayFixture(t *testing.T) {
	svc, counters, _ := newTestService()
	yesterday := ref.AddDays(-1)

	seed(t, counters, ref, "CN", 3)
	seed(t, counters, ref, "RU", 2)
	seed(t, counters, yesterday, "CN", 1)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.GrandTotal)
	assert.Equal(t, 5, sum.TodayTotal)
	assert.Equal(t, 1, sum.Yesterday)
	assert.Equal(t, 4, sum.TodayDelta)

	require.Len(t, sum.Countries, 2)
	assert.Equal(t, "CN", sum.Countries[0].Code)
	assert.Equal(t, 4, sum.Countries[0].Count)
	assert.Equal(t, "China", sum.Countries[0].Name)
	assert.Equal(t, "RU", sum.Countries[1].Code)
	assert.Equal(t, 2, sum.Countries[1].Count)

	assert.Equal(t, "CN", sum.TopCountry.Code)
	assert.Equal(t, 4, sum.TopCountry.Count)

	// 6 denials over 2 days with data
	assert.Equal(t, 3.0, sum.DailyAverage)

	assert.Equal(t, ref, sum.PeakDay)
	assert.Equal(t, 5, sum.PeakCount)
}

func TestSummarize_CountryShares(t *testing.T) {
	svc, counters, _ := newTestService()

	seed(t, counters, ref, "CN", 2)
	seed(t, counters, ref, "RU", 1)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)

	require.Len(t, sum.Countries, 2)
	assert.Equal(t, 66.7, sum.Countries[0].Share)
	assert.Equal(t, 33.3, sum.Countries[1].Share)
}

func TestSummarize_CountryTiesBreakLexicographically(t *testing.T) {
	svc, counters, _ := newTestService()

	seed(t, counters, ref, "RU", 2)
	seed(t, counters, ref, "CN", 2)
	seed(t, counters, ref, "BR", 1)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)

	require.Len(t, sum.Countries, 3)
	assert.Equal(t, "CN", sum.Countries[0].Code)
	assert.Equal(t, "RU", sum.Countries[1].Code)
	assert.Equal(t, "BR", sum.Countries[2].Code)
	assert.Equal(t, "CN", sum.TopCountry.Code)
}

func TestSummarize_PeakTiePrefersMostRecent(t *testing.T) {
	svc, counters, _ := newTestService()

	seed(t, counters, ref.AddDays(-3), "CN", 4)
	seed(t, counters, ref.AddDays(-1), "CN", 4)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)

	assert.Equal(t, ref.AddDays(-1), sum.PeakDay)
	assert.Equal(t, 4, sum.PeakCount)
}

func TestSummarize_DailyAverageRounds(t *testing.T) {
	svc, counters, _ := newTestService()

	// 7 denials over 3 days with data: 2.333... rounds to 2.3
	seed(t, counters, ref, "CN", 3)
	seed(t, counters, ref.AddDays(-1), "CN", 2)
	seed(t, counters, ref.AddDays(-2), "CN", 2)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)
	assert.Equal(t, 2.3, sum.DailyAverage)
}

func TestWeeklyTrend(t *testing.T) {
	tests := []struct {
		name      string
		totals    []int // most recent first, 14 entries max
		wantPct   int
		direction domain.TrendDirection
	}{
		{
			name:      "previous zero recent positive is +100",
			totals:    []int{3, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0},
			wantPct:   100,
			direction: domain.TrendIncrease,
		},
		{
			name:      "both zero is flat",
			totals:    make([]int, 14),
			wantPct:   0,
			direction: domain.TrendFlat,
		},
		{
			name:      "doubling is +100",
			totals:    []int{4, 4, 0, 0, 0, 0, 0, 2, 2, 0, 0, 0, 0, 0},
			wantPct:   100,
			direction: domain.TrendIncrease,
		},
		{
			name:      "one third drop rounds to -33",
			totals:    []int{2, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0},
			wantPct:   -33,
			direction: domain.TrendDecrease,
		},
		{
			name:      "equal weeks is flat",
			totals:    []int{5, 0, 0, 0, 0, 0, 0, 5, 0, 0, 0, 0, 0, 0},
			wantPct:   0,
			direction: domain.TrendFlat,
		},
		{
			name:      "half up rounds away from zero",
			totals:    []int{3, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0},
			wantPct:   50,
			direction: domain.TrendIncrease,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := weeklyTrend(tt.totals)
			assert.Equal(t, tt.wantPct, got.Percent)
			assert.Equal(t, tt.direction, got.Direction)
		})
	}
}

func TestSummarize_TrendFromBuckets(t *testing.T) {
	svc, counters, _ := newTestService()

	// 6 in the recent week, 4 in the previous: +50%
	seed(t, counters, ref, "CN", 6)
	seed(t, counters, ref.AddDays(-8), "CN", 4)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)
	assert.Equal(t, 50, sum.WeeklyTrend.Percent)
	assert.Equal(t, domain.TrendIncrease, sum.WeeklyTrend.Direction)
}

func TestSummarize_CountsOutsideWindowIgnored(t *testing.T) {
	svc, counters, _ := newTestService()

	seed(t, counters, ref.AddDays(-30), "CN", 9) // one day past the window
	seed(t, counters, ref, "CN", 1)

	sum, err := svc.Summarize(ref, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.GrandTotal)
}

func TestSummarize_DefaultsWindowDays(t *testing.T) {
	svc, counters, _ := newTestService()
	seed(t, counters, ref, "CN", 1)

	sum, err := svc.Summarize(ref, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWindowDays, sum.WindowDays)
}

// failingCounters always errors.
type failingCounters struct{}

func (failingCounters) Window([]domain.Date) ([]domain.DayBucket, error) {
	return nil, errors.New("store down")
}
func (failingCounters) Delete(domain.Date) error { return errors.New("store down") }

func TestSummarize_StoreErrorPropagates(t *testing.T) {
	svc := NewService(ServiceOptions{Counters: failingCounters{}, Activity: memstore.NewLog()})

	_, err := svc.Summarize(ref, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load window")
}
