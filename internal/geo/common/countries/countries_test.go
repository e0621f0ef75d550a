package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName_Known(t *testing.T) {
	assert.Equal(t, "China", Name("CN"))
	assert.Equal(t, "Russia", Name("RU"))
	assert.Equal(t, "Singapore", Name("SG"))
	assert.Equal(t, "Brazil", Name("BR"))
	assert.Equal(t, "United States", Name("US"))
}

func TestName_FallsBackToCode(t *testing.T) {
	assert.Equal(t, "XX", Name("XX"))
	assert.Equal(t, "", Name(""))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("DE"))
	assert.False(t, Known("XX"))
	// lookups are case-sensitive; catalog keys are uppercase
	assert.False(t, Known("cn"))
}
