package reporting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/geofence/internal/geo/domain"
	"github.com/haukened/geofence/internal/geo/repos/memstore"
)

// seedLog prepends n entries; the most recent has the highest index.
func seedLog(t *testing.T, l *memstore.Log, n int, ipFor func(i int) string) {
	t.Helper()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		entry := domain.NewActivityEntry(base.Add(time.Duration(i)*time.Second), "CN", domain.RequestMetadata{
			Path:         fmt.Sprintf("/p/%d", i),
			ForwardedFor: ipFor(i),
		})
		require.NoError(t, l.Prepend(entry, domain.LogCapacity))
	}
}

func TestQuery_SecondPageUnfiltered(t *testing.T) {
	svc, _, logStore := newTestService()
	seedLog(t, logStore, 60, func(i int) string { return fmt.Sprintf("203.0.113.%d", i) })

	page, err := svc.Query("", 2, 25)
	require.NoError(t, err)

	assert.Equal(t, 60, page.TotalMatches)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Entries, 25)
	// newest first: entry 0 of page 2 is the 26th newest, i.e. index 34
	assert.Equal(t, "/p/34", page.Entries[0].Path)
	assert.Equal(t, "/p/10", page.Entries[24].Path)
}

func TestQuery_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	svc, _, logStore := newTestService()
	seedLog(t, logStore, 10, func(i int) string {
		if i%2 == 0 {
			return fmt.Sprintf("ABC::%d", i)
		}
		return fmt.Sprintf("203.0.113.%d", i)
	})

	page, err := svc.Query("abc", 1, 25)
	require.NoError(t, err)

	assert.Equal(t, 5, page.TotalMatches)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Entries, 5)
	// relative newest-first order preserved
	assert.Equal(t, "ABC::8", page.Entries[0].IP)
	assert.Equal(t, "ABC::0", page.Entries[4].IP)
}

func TestQuery_NoMatches(t *testing.T) {
	svc, _, logStore := newTestService()
	seedLog(t, logStore, 5, func(i int) string { return "203.0.113.9" })

	page, err := svc.Query("10.0.0.", 1, 25)
	require.NoError(t, err)

	assert.Equal(t, 0, page.TotalMatches)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Entries)
}

func TestQuery_PageClampedToOne(t *testing.T) {
	svc, _, logStore := newTestService()
	seedLog(t, logStore, 5, func(i int) string { return "203.0.113.9" })

	page, err := svc.Query("", 0, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Entries, 5)

	page, err = svc.Query("", -4, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
}

func TestQuery_PastTheEndIsEmptyNotError(t *testing.T) {
	svc, _, logStore := newTestService()
	seedLog(t, logStore, 30, func(i int) string { return "203.0.113.9" })

	page, err := svc.Query("", 9, 25)
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Equal(t, 30, page.TotalMatches)
	assert.Equal(t, 2, page.TotalPages)
}

func TestQuery_EmptyLog(t *testing.T) {
	svc, _, _ := newTestService()

	page, err := svc.Query("", 1, 25)
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Equal(t, 0, page.TotalMatches)
}

func TestStats_RanksOverUnfilteredLog(t *testing.T) {
	svc, _, logStore := newTestService()
	// 6 from one repeat offender, 3 from another, 1 one-off, paths cycle
	seedLog(t, logStore, 10, func(i int) string {
		switch {
		case i < 6:
			return "203.0.113.9"
		case i < 9:
			return "198.51.100.4"
		default:
			return "192.0.2.77"
		}
	})

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalEntries)
	assert.Equal(t, 3, stats.UniqueIPs)
	assert.Equal(t, 3.3, stats.AvgPerIP)

	require.NotEmpty(t, stats.TopIPs)
	assert.Equal(t, domain.KeyCount{Key: "203.0.113.9", Count: 6}, stats.TopIPs[0])
	assert.Equal(t, domain.KeyCount{Key: "198.51.100.4", Count: 3}, stats.TopIPs[1])

	// every path occurs once; ties rank lexicographically, capped at 10
	require.Len(t, stats.TopPaths, 10)
	assert.Equal(t, "/p/0", stats.TopPaths[0].Key)
}

func TestStats_EmptyLog(t *testing.T) {
	svc, _, _ := newTestService()

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, 0, stats.UniqueIPs)
	assert.Equal(t, 0.0, stats.AvgPerIP)
	assert.Empty(t, stats.TopIPs)
	assert.Empty(t, stats.TopPaths)
}

func TestRankKeys_TruncatesToLimit(t *testing.T) {
	counts := make(map[string]int)
	for i := 0; i < 15; i++ {
		counts[fmt.Sprintf("ip-%02d", i)] = i + 1
	}

	ranked := rankKeys(counts, 10)
	require.Len(t, ranked, 10)
	assert.Equal(t, 15, ranked[0].Count)
	assert.Equal(t, 6, ranked[9].Count)
}
