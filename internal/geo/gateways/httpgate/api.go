package httpgate

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/haukened/geofence/internal/geo/common/clock"
	"github.com/haukened/geofence/internal/geo/common/log"
	"github.com/haukened/geofence/internal/geo/domain"
)

// confirmHeader and confirmValue gate the destructive clear endpoint. The
// core trusts the caller; this is the explicit confirmation gesture, not an
// authorization check.
const (
	confirmHeader = "X-Confirm"
	confirmValue  = "clear-all"
)

// Reporter is the reporting surface the API consumes.
type Reporter interface {
	Summarize(ref domain.Date, windowDays int) (domain.Summary, error)
	Query(ipSubstring string, page, pageSize int) (domain.ActivityPage, error)
	Stats() (domain.ActivityStats, error)
	ClearAll(ref domain.Date, windowDays int) error
}

// API serves the operator reporting endpoints as JSON.
type API struct {
	reporter   Reporter
	clk        clock.Clock
	logger     log.Logger
	windowDays int
	pageSize   int
}

// APIOptions carries the dependencies for NewAPI.
type APIOptions struct {
	Reporter   Reporter
	Clock      clock.Clock
	Logger     log.Logger
	WindowDays int
	PageSize   int
}

// NewAPI constructs the reporting API.
func NewAPI(opts APIOptions) *API {
	windowDays := opts.WindowDays
	if windowDays < 1 {
		windowDays = domain.DefaultWindowDays
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &API{
		reporter:   opts.Reporter,
		clk:        opts.Clock,
		logger:     logger,
		windowDays: windowDays,
		pageSize:   pageSize,
	}
}

// Register attaches the reporting routes to the router.
func (a *API) Register(r *httprouter.Router) {
	r.HandlerFunc(http.MethodGet, "/geoblock/stats", a.handleStats)
	r.HandlerFunc(http.MethodGet, "/geoblock/activity", a.handleActivity)
	r.HandlerFunc(http.MethodDelete, "/geoblock/stats", a.handleClear)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := a.reporter.Summarize(domain.DateOf(a.clk.Now()), a.windowDays)
	if err != nil {
		a.fail(w, err, "Failed to summarize")
		return
	}
	a.writeJSON(w, http.StatusOK, summary)
}

// activityResponse pairs one page of search results with log-wide stats.
type activityResponse struct {
	domain.ActivityPage
	Stats domain.ActivityStats `json:"stats"`
}

func (a *API) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	result, err := a.reporter.Query(q.Get("ip"), page, a.pageSize)
	if err != nil {
		a.fail(w, err, "Failed to query activity")
		return
	}
	stats, err := a.reporter.Stats()
	if err != nil {
		a.fail(w, err, "Failed to compute activity stats")
		return
	}
	a.writeJSON(w, http.StatusOK, activityResponse{ActivityPage: result, Stats: stats})
}

func (a *API) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(confirmHeader) != confirmValue {
		a.writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"error": "confirmation required: set " + confirmHeader + ": " + confirmValue,
		})
		return
	}
	if err := a.reporter.ClearAll(domain.DateOf(a.clk.Now()), a.windowDays); err != nil {
		a.fail(w, err, "Failed to clear statistics")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (a *API) fail(w http.ResponseWriter, err error, msg string) {
	a.logger.Error(map[string]any{"error": err.Error()}, msg)
	a.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn(map[string]any{"error": err.Error()}, "Failed to encode response")
	}
}
