package httpgate

import (
	"net/http"
	"strings"
)

// Resolver supplies the visitor's country for a request. Implementations
// are external collaborators; geolocation itself is out of scope here.
type Resolver interface {
	// Country returns an ISO-2 code, or "" when the lookup is unavailable.
	Country(r *http.Request) string
}

// HeaderResolver reads the country code from a request header populated by
// an upstream geo-aware edge (CDN, load balancer, or proxy).
type HeaderResolver struct {
	Header string // e.g. "X-Country-Code"
}

// Country returns the header value trimmed and uppercased, or "" when the
// header is absent or blank.
func (h HeaderResolver) Country(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(r.Header.Get(h.Header)))
}

// StaticResolver always answers with a fixed code. Useful for tests.
type StaticResolver struct {
	Code string
}

func (s StaticResolver) Country(*http.Request) string { return s.Code }
