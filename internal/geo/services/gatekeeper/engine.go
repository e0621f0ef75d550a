// Package gatekeeper decides whether a request is denied by country and
// records denials into the counter and activity stores.
package gatekeeper

import "github.com/haukened/geofence/internal/geo/domain"

// Engine evaluates requests against a fixed country blocklist.
//
// Evaluation is a pure function of the request context and the blocklist:
// no side effects, no errors, a verdict for every input.
type Engine struct {
	blocked map[string]struct{}
	codes   []string
}

// NewEngine builds an engine from the configured blocklist. Codes are taken
// exactly as given; normalization (uppercasing, deduplication) is the
// caller's job. Duplicates are collapsed, first occurrence order kept.
func NewEngine(codes []string) *Engine {
	e := &Engine{blocked: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		if _, dup := e.blocked[c]; dup {
			continue
		}
		e.blocked[c] = struct{}{}
		e.codes = append(e.codes, c)
	}
	return e
}

// BlockedCountries returns the blocklist in configuration order.
func (e *Engine) BlockedCountries() []string {
	out := make([]string, len(e.codes))
	copy(out, e.codes)
	return out
}

// Evaluate returns the verdict for a request context.
//
// Bypass flags always win over the blocklist. An unresolved country code
// allows the request: the gate fails open, preferring availability over
// strict blocking when the geo lookup is unavailable. This is a deliberate,
// security-relevant default.
func (e *Engine) Evaluate(ctx domain.RequestContext) domain.Verdict {
	if ctx.AdminRoute || ctx.Ajax || ctx.APIRequest || ctx.TrustedOperator {
		return domain.Allow()
	}
	if !ctx.Resolved() {
		return domain.Allow()
	}
	if _, hit := e.blocked[ctx.CountryCode]; hit {
		return domain.Deny(ctx.CountryCode)
	}
	return domain.Allow()
}
