package domain

// DefaultPageSize is the activity search page size used when a caller does
// not specify one.
const DefaultPageSize = 25

// TrendDirection classifies a week-over-week comparison by sign.
type TrendDirection string

const (
	TrendIncrease TrendDirection = "increase"
	TrendDecrease TrendDirection = "decrease"
	TrendFlat     TrendDirection = "flat"
)

// Trend is a whole-percentage change with its direction.
type Trend struct {
	Percent   int            `json:"percent"`
	Direction TrendDirection `json:"direction"`
}

// ClassifyTrend derives the direction from the sign of pct.
func ClassifyTrend(pct int) Trend {
	t := Trend{Percent: pct, Direction: TrendFlat}
	switch {
	case pct > 0:
		t.Direction = TrendIncrease
	case pct < 0:
		t.Direction = TrendDecrease
	}
	return t
}

// CountryCount is one country's share of the window's denials.
type CountryCount struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Share float64 `json:"share"` // percent of the grand total, one decimal
}

// Summary aggregates a trailing window of day buckets.
//
// Tie-breaking is deterministic: Countries sorts descending by count with
// ascending country code on equal counts, TopCountry is the first entry of
// that order, and PeakDay prefers the date closest to the reference when
// daily totals tie.
type Summary struct {
	ReferenceDate Date           `json:"reference_date"`
	WindowDays    int            `json:"window_days"`
	GrandTotal    int            `json:"grand_total"`
	Countries     []CountryCount `json:"countries"`
	TopCountry    CountryCount   `json:"top_country"` // zero value when GrandTotal is 0
	TodayTotal    int            `json:"today_total"`
	Yesterday     int            `json:"yesterday_total"`
	TodayDelta    int            `json:"today_delta"` // today minus yesterday
	DailyAverage  float64        `json:"daily_average"`
	PeakDay       Date           `json:"peak_day"` // empty when all totals are 0
	PeakCount     int            `json:"peak_count"`
	WeeklyTrend   Trend          `json:"weekly_trend"`
}

// KeyCount is a ranked occurrence count for an opaque key (IP or path).
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ActivityPage is one page of (possibly filtered) activity entries.
type ActivityPage struct {
	Entries      []ActivityEntry `json:"entries"`
	Page         int             `json:"page"`
	PageSize     int             `json:"page_size"`
	TotalMatches int             `json:"total_matches"`
	TotalPages   int             `json:"total_pages"`
}

// ActivityStats summarizes the full, unfiltered activity log.
type ActivityStats struct {
	TotalEntries int        `json:"total_entries"`
	UniqueIPs    int        `json:"unique_ips"`
	AvgPerIP     float64    `json:"avg_per_ip"` // entries per distinct IP, one decimal
	TopIPs       []KeyCount `json:"top_ips"`    // descending by count, at most 10
	TopPaths     []KeyCount `json:"top_paths"`  // descending by count, at most 10
}
