package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdict_Constructors(t *testing.T) {
	allow := Allow()
	assert.True(t, allow.Allowed())
	assert.False(t, allow.Denied)
	assert.Empty(t, allow.CountryCode)

	deny := Deny("CN")
	assert.False(t, deny.Allowed())
	assert.True(t, deny.Denied)
	assert.Equal(t, "CN", deny.CountryCode)
}

func TestRequestContext_Resolved(t *testing.T) {
	assert.False(t, RequestContext{}.Resolved())
	assert.True(t, RequestContext{CountryCode: "US"}.Resolved())
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		pct  int
		want TrendDirection
	}{
		{42, TrendIncrease},
		{100, TrendIncrease},
		{-17, TrendDecrease},
		{0, TrendFlat},
	}
	for _, tt := range tests {
		got := ClassifyTrend(tt.pct)
		assert.Equal(t, tt.pct, got.Percent)
		assert.Equal(t, tt.want, got.Direction)
	}
}
