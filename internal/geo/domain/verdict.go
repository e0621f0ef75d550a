package domain

// RequestContext carries the already-extracted facts about an inbound request
// that the decision engine needs. It is built by the hosting adapter; the
// engine itself never touches the raw request.
type RequestContext struct {
	AdminRoute      bool   // request targets an administrative route
	Ajax            bool   // request was made via XMLHttpRequest
	APIRequest      bool   // request targets a machine API endpoint
	TrustedOperator bool   // caller is a trusted operator (support staff bypass)
	CountryCode     string // resolved ISO-2 country code; empty means unresolved
}

// Resolved reports whether the geo lookup produced a country code.
func (c RequestContext) Resolved() bool { return c.CountryCode != "" }

// Verdict represents the outcome of evaluating a request against the
// country blocklist and bypass rules. Pure value type.
type Verdict struct {
	Denied      bool   // true if the request must be refused
	CountryCode string // offending country on deny, for display only
}

// Allowed is a convenience accessor.
func (v Verdict) Allowed() bool { return !v.Denied }

// Allow returns a passing verdict.
func Allow() Verdict { return Verdict{} }

// Deny returns a refusing verdict carrying the offending country code.
func Deny(code string) Verdict { return Verdict{Denied: true, CountryCode: code} }
