// Package httpgate adapts the gatekeeper and reporting services to HTTP.
// It is the boundary with the hosting framework: the gate middleware
// short-circuits denied requests, and the reporting API exposes the
// operator surface.
package httpgate

import (
	"net"
	"net/http"
	"strings"

	"github.com/haukened/geofence/internal/geo/common/log"
	"github.com/haukened/geofence/internal/geo/domain"
)

// deniedPage is the fixed response body served with every 403. It is served
// even when recording the denial fails.
const deniedPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta name="robots" content="noindex, nofollow"><title>Access Restricted</title></head>
<body>
<h1>Access Restricted</h1>
<p>Access to this website is not available from your current location.</p>
<p>Error 403</p>
</body>
</html>
`

// Evaluator is the decision contract the gate consumes.
type Evaluator interface {
	Evaluate(ctx domain.RequestContext) domain.Verdict
}

// DenialRecorder persists denial events.
type DenialRecorder interface {
	RecordDenial(country string, meta domain.RequestMetadata) error
}

// Gate builds request contexts from inbound requests, asks the evaluator
// for a verdict, and on deny records the event and serves the fixed 403.
type Gate struct {
	engine        Evaluator
	recorder      DenialRecorder
	resolver      Resolver
	logger        log.Logger
	adminPrefixes []string
	apiPrefixes   []string
	trustedHeader string
}

// GateOptions carries the dependencies for NewGate.
type GateOptions struct {
	Engine        Evaluator
	Recorder      DenialRecorder
	Resolver      Resolver
	Logger        log.Logger
	AdminPrefixes []string
	APIPrefixes   []string
	TrustedHeader string
}

// NewGate constructs a Gate.
func NewGate(opts GateOptions) *Gate {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Gate{
		engine:        opts.Engine,
		recorder:      opts.Recorder,
		resolver:      opts.Resolver,
		logger:        logger,
		adminPrefixes: opts.AdminPrefixes,
		apiPrefixes:   opts.APIPrefixes,
		trustedHeader: opts.TrustedHeader,
	}
}

// Wrap returns a handler that evaluates every request before passing it to
// next. Denied requests never reach next.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		verdict := g.engine.Evaluate(g.contextFor(r, r.URL.Path))
		if verdict.Allowed() {
			next.ServeHTTP(w, r)
			return
		}
		g.deny(w, r, verdict, r.URL.RequestURI())
	})
}

// VerdictHandler exposes the decision as a standalone endpoint for hosts
// that short-circuit via a subrequest (nginx auth_request and the like).
// The original request's path travels in X-Forwarded-Uri. Responds 204 on
// allow, 403 with the fixed page on deny.
func (g *Gate) VerdictHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.Header.Get("X-Forwarded-Uri")
		if path == "" {
			path = r.URL.Path
		}
		verdict := g.engine.Evaluate(g.contextFor(r, path))
		if verdict.Allowed() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		g.deny(w, r, verdict, path)
	})
}

// contextFor extracts the decision inputs from the request. path is passed
// separately so subrequest callers can supply the original URI.
func (g *Gate) contextFor(r *http.Request, path string) domain.RequestContext {
	return domain.RequestContext{
		AdminRoute:      hasAnyPrefix(path, g.adminPrefixes),
		Ajax:            strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest"),
		APIRequest:      hasAnyPrefix(path, g.apiPrefixes),
		TrustedOperator: g.trustedHeader != "" && r.Header.Get(g.trustedHeader) != "",
		CountryCode:     g.resolver.Country(r),
	}
}

// deny records the event and serves the fixed 403 page. A recording failure
// is logged and must not suppress the response.
func (g *Gate) deny(w http.ResponseWriter, r *http.Request, verdict domain.Verdict, path string) {
	meta := domain.RequestMetadata{
		Path:         path,
		Referer:      r.Header.Get("Referer"),
		UserAgent:    r.Header.Get("User-Agent"),
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		RemoteAddr:   remoteHost(r.RemoteAddr),
	}
	if err := g.recorder.RecordDenial(verdict.CountryCode, meta); err != nil {
		g.logger.Error(map[string]any{
			"error":   err.Error(),
			"country": verdict.CountryCode,
			"path":    path,
		}, "Failed to record denial")
	}

	g.logger.Info(map[string]any{
		"country": verdict.CountryCode,
		"ip":      meta.ClientIP(),
		"path":    path,
	}, "Request denied by country gate")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(deniedPage))
}

// hasAnyPrefix reports whether path starts with any of the prefixes.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// remoteHost strips the port from a host:port remote address, returning the
// input unchanged when it has no port.
func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
