package steady

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
)

func TestNewMonitor_InvalidTolerance(t *testing.T) {
	_, err := NewMonitor(0)
	assert.Error(t, err)
	_, err = NewMonitor(-1e-9)
	assert.Error(t, err)
}

func TestMeasure_IdenticalFieldsAreZero(t *testing.T) {
	g, err := grid.UnitSquare(8, 8)
	require.NoError(t, err)
	a := field.NewScalar(g)
	b := field.NewScalar(g)
	a.Fill(0.5)
	b.Fill(0.5)

	m, err := NewMonitor(1e-9)
	require.NoError(t, err)

	metric, err := m.Measure(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, metric)
	assert.True(t, m.Converged(metric), "a zero metric converges on the first check")
}

func TestMeasure_IncompatibleFields(t *testing.T) {
	g1, err := grid.UnitSquare(8, 8)
	require.NoError(t, err)
	g2, err := grid.UnitSquare(9, 8)
	require.NoError(t, err)

	m, err := NewMonitor(1e-9)
	require.NoError(t, err)

	_, err = m.Measure(field.NewScalar(g1), field.NewScalar(g2))
	assert.ErrorIs(t, err, ErrIncompatibleFields)

	_, err = m.Measure(field.NewScalar(g1), nil)
	assert.ErrorIs(t, err, ErrIncompatibleFields)
}

func TestConverged_StrictThreshold(t *testing.T) {
	m, err := NewMonitor(1e-6)
	require.NoError(t, err)

	assert.True(t, m.Converged(9.9e-7))
	assert.False(t, m.Converged(1e-6), "a metric equal to tolerance has not converged")
	assert.False(t, m.Converged(2e-6))
	assert.InDelta(t, 1e-6, m.Tolerance(), 1e-21)
}

func TestMeasure_TracksFieldDistance(t *testing.T) {
	g, err := grid.UnitSquare(4, 4)
	require.NoError(t, err)
	a := field.NewScalar(g)
	b := field.NewScalar(g)
	b.Set(1, 1, 0.3)

	m, err := NewMonitor(1e-9)
	require.NoError(t, err)

	metric, err := m.Measure(a, b)
	require.NoError(t, err)
	assert.InDelta(t, a.DiffL2(b), metric, 1e-18)
	assert.Greater(t, metric, 0.0)
}
