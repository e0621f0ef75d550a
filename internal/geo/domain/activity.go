package domain

import "time"

const (
	// LogCapacity is the hard upper bound on retained activity entries.
	// Inserting beyond it evicts the oldest entries.
	LogCapacity = 200

	// MaxUserAgentLen is the stored length limit for user-agent strings.
	MaxUserAgentLen = 100

	// DirectReferer is the sentinel stored when a request carried no referer.
	DirectReferer = "direct"

	// UnknownValue is the fallback for fields the request did not provide.
	UnknownValue = "unknown"
)

// RequestMetadata carries the raw request attributes the recorder persists
// alongside a denial. All fields are optional; constructors apply fallbacks.
type RequestMetadata struct {
	Path         string // request path with query string
	Referer      string // Referer header, may be empty
	UserAgent    string // User-Agent header, may be empty
	ForwardedFor string // raw X-Forwarded-For header value, may be empty
	RemoteAddr   string // direct peer address, may be empty
}

// ClientIP resolves the address to attribute the request to. The raw
// forwarded-for value is trusted as given when present; it can contain an
// attacker-controlled, comma-separated proxy chain. Validating it against a
// trusted-proxy list is deliberately not done here.
func (m RequestMetadata) ClientIP() string {
	if m.ForwardedFor != "" {
		return m.ForwardedFor
	}
	if m.RemoteAddr != "" {
		return m.RemoteAddr
	}
	return UnknownValue
}

// ActivityEntry is one recorded denial. Immutable once created.
type ActivityEntry struct {
	Time      time.Time `json:"time"`
	Country   string    `json:"country"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	Referer   string    `json:"referer"`
	UserAgent string    `json:"user_agent"`
}

// NewActivityEntry builds an entry from request metadata, applying the
// "direct" referer sentinel, unknown-value fallbacks, user-agent truncation,
// and second-precision timestamps.
func NewActivityEntry(at time.Time, country string, meta RequestMetadata) ActivityEntry {
	path := meta.Path
	if path == "" {
		path = UnknownValue
	}
	referer := meta.Referer
	if referer == "" {
		referer = DirectReferer
	}
	ua := meta.UserAgent
	if ua == "" {
		ua = UnknownValue
	}
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ActivityEntry{
		Time:      at.Truncate(time.Second),
		Country:   country,
		IP:        meta.ClientIP(),
		Path:      path,
		Referer:   referer,
		UserAgent: ua,
	}
}
