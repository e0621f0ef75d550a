package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/haukened/geofence/internal/geo/domain"
)

// topN is how many ranked IPs and paths Stats reports.
const topN = 10

// Query filters the activity log by a case-insensitive IP substring and
// returns one page of results, newest first.
//
// An empty substring matches the whole log. page is clamped to a minimum of
// 1; pages past the end yield an empty slice, not an error.
func (s *Service) Query(ipSubstring string, page, pageSize int) (domain.ActivityPage, error) {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	entries, err := s.activity.All()
	if err != nil {
		return domain.ActivityPage{}, fmt.Errorf("load activity log: %w", err)
	}

	working := entries
	if ipSubstring != "" {
		needle := strings.ToLower(ipSubstring)
		working = make([]domain.ActivityEntry, 0, len(entries))
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.IP), needle) {
				working = append(working, e)
			}
		}
	}

	result := domain.ActivityPage{
		Page:         page,
		PageSize:     pageSize,
		TotalMatches: len(working),
		TotalPages:   (len(working) + pageSize - 1) / pageSize,
	}

	start := (page - 1) * pageSize
	if start < len(working) {
		end := start + pageSize
		if end > len(working) {
			end = len(working)
		}
		result.Entries = working[start:end]
	} else {
		result.Entries = []domain.ActivityEntry{}
	}

	return result, nil
}

// Stats ranks repeat IPs and targeted paths over the full, unfiltered log,
// regardless of any active search.
func (s *Service) Stats() (domain.ActivityStats, error) {
	entries, err := s.activity.All()
	if err != nil {
		return domain.ActivityStats{}, fmt.Errorf("load activity log: %w", err)
	}

	ipCounts := make(map[string]int)
	pathCounts := make(map[string]int)
	for _, e := range entries {
		ipCounts[e.IP]++
		pathCounts[e.Path]++
	}

	stats := domain.ActivityStats{
		TotalEntries: len(entries),
		UniqueIPs:    len(ipCounts),
		TopIPs:       rankKeys(ipCounts, topN),
		TopPaths:     rankKeys(pathCounts, topN),
	}
	if stats.TotalEntries > 0 {
		divisor := stats.UniqueIPs
		if divisor < 1 {
			divisor = 1
		}
		stats.AvgPerIP = round1(float64(stats.TotalEntries) / float64(divisor))
	}
	return stats, nil
}

// rankKeys orders counts descending, ascending by key on ties, truncated
// to at most limit entries.
func rankKeys(counts map[string]int, limit int) []domain.KeyCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]domain.KeyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.KeyCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
