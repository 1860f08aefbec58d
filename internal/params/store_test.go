package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreSeedsDefaults(t *testing.T) {
	s := NewStore()

	assert.Equal(t, []string{"irradiance", "land_cover", "protected", "slope"}, s.Criteria())
	p, ok := s.Get("irradiance")
	require.True(t, ok)
	assert.InDelta(t, 40, p.Weight, 0.001)
	assert.Equal(t, "kWh/m²/day", p.Unit)
	assert.InDelta(t, 100, s.WeightSum(), 0.001)
}

func TestUpdateFields(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Update("slope", "weight", "35.5"))
	require.NoError(t, s.Update("slope", "min", "1"))
	require.NoError(t, s.Update("slope", "max", "12.25"))

	p, _ := s.Get("slope")
	assert.InDelta(t, 35.5, p.Weight, 0.001)
	assert.InDelta(t, 1, p.Min, 0.001)
	assert.InDelta(t, 12.25, p.Max, 0.001)
}

func TestUpdateDoesNotNormalizeWeights(t *testing.T) {
	s := NewStore()

	// Push the sum well past 100; the store must accept it as-is.
	require.NoError(t, s.Update("irradiance", "weight", "90"))
	require.NoError(t, s.Update("slope", "weight", "90"))

	assert.InDelta(t, 210, s.WeightSum(), 0.001)
}

func TestUpdateErrors(t *testing.T) {
	s := NewStore()

	err := s.Update("nonexistent", "weight", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown criterion")

	err = s.Update("slope", "color", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	err = s.Update("slope", "weight", "not-a-number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")

	// Failed updates leave the parameter untouched.
	p, _ := s.Get("slope")
	assert.InDelta(t, 30, p.Weight, 0.001)
}

func TestSetUnit(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetUnit("protected", "mi"))
	p, _ := s.Get("protected")
	assert.Equal(t, "mi", p.Unit)

	assert.Error(t, s.SetUnit("nope", "x"))
}
