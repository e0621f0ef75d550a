package gatekeeper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haukened/geofence/internal/geo/domain"
)

func TestEvaluate_BypassFlagsAlwaysAllow(t *testing.T) {
	e := NewEngine([]string{"CN", "RU"})

	contexts := []domain.RequestContext{
		{AdminRoute: true, CountryCode: "CN"},
		{Ajax: true, CountryCode: "CN"},
		{APIRequest: true, CountryCode: "RU"},
		{TrustedOperator: true, CountryCode: "RU"},
		{AdminRoute: true, TrustedOperator: true, CountryCode: "CN"},
		{AdminRoute: true}, // bypass with unresolved country
	}

	for _, ctx := range contexts {
		verdict := e.Evaluate(ctx)
		assert.True(t, verdict.Allowed(), "context %+v must be allowed", ctx)
	}
}

func TestEvaluate_UnresolvedCountryFailsOpen(t *testing.T) {
	e := NewEngine([]string{"CN", "RU"})

	verdict := e.Evaluate(domain.RequestContext{CountryCode: ""})
	assert.True(t, verdict.Allowed())
}

func TestEvaluate_BlocklistMembership(t *testing.T) {
	e := NewEngine([]string{"CN", "RU", "SG", "BR"})

	for _, code := range []string{"CN", "RU", "SG", "BR"} {
		verdict := e.Evaluate(domain.RequestContext{CountryCode: code})
		assert.True(t, verdict.Denied, "%s must be denied", code)
		assert.Equal(t, code, verdict.CountryCode)
	}

	for _, code := range []string{"US", "DE", "FR", "JP"} {
		verdict := e.Evaluate(domain.RequestContext{CountryCode: code})
		assert.True(t, verdict.Allowed(), "%s must be allowed", code)
	}
}

func TestEvaluate_MatchIsCaseSensitive(t *testing.T) {
	e := NewEngine([]string{"CN"})

	// the engine does no normalization; lowercase input is not a member
	verdict := e.Evaluate(domain.RequestContext{CountryCode: "cn"})
	assert.True(t, verdict.Allowed())
}

func TestEvaluate_EmptyBlocklistAllowsAll(t *testing.T) {
	e := NewEngine(nil)

	verdict := e.Evaluate(domain.RequestContext{CountryCode: "CN"})
	assert.True(t, verdict.Allowed())
}

func TestNewEngine_DeduplicatesPreservingOrder(t *testing.T) {
	e := NewEngine([]string{"CN", "RU", "CN", "BR"})
	assert.Equal(t, []string{"CN", "RU", "BR"}, e.BlockedCountries())
}
