package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodyn/convect/internal/grid"
)

func mustGrid(t *testing.T, nx, ny int) *grid.Uniform {
	t.Helper()
	g, err := grid.UnitSquare(nx, ny)
	require.NoError(t, err)
	return g
}

func TestScalar_SetAndReductions(t *testing.T) {
	f := NewScalar(mustGrid(t, 4, 4))
	f.Fill(2.0)
	f.Set(1, 2, -5.0)

	assert.InDelta(t, -5.0, f.Min(), 1e-15)
	assert.InDelta(t, 2.0, f.Max(), 1e-15)
	assert.InDelta(t, 5.0, f.MaxAbs(), 1e-15)
	assert.InDelta(t, (15*2.0-5.0)/16, f.Mean(), 1e-15)
}

func TestScalar_CloneIsIndependent(t *testing.T) {
	f := NewScalar(mustGrid(t, 4, 4))
	f.Fill(1.0)

	c := f.Clone()
	c.Set(0, 0, 9.0)

	assert.InDelta(t, 1.0, f.At(0, 0), 1e-15)
	assert.InDelta(t, 9.0, c.At(0, 0), 1e-15)
}

func TestScalar_BoundarySetters(t *testing.T) {
	f := NewScalar(mustGrid(t, 5, 4))
	f.SetRow(0, 1.0)
	f.SetCol(4, 7.0)

	for c := 0; c < 4; c++ {
		assert.InDelta(t, 1.0, f.At(0, c), 1e-15)
	}
	for r := 1; r < 4; r++ {
		assert.InDelta(t, 7.0, f.At(r, 4), 1e-15)
	}
}

func TestScalar_Compatible(t *testing.T) {
	a := NewScalar(mustGrid(t, 4, 4))
	b := NewScalar(mustGrid(t, 4, 4))
	c := NewScalar(mustGrid(t, 5, 4))

	assert.True(t, a.Compatible(b))
	assert.False(t, a.Compatible(c))
	assert.False(t, a.Compatible(nil))
}

func TestScalar_DiffL2(t *testing.T) {
	g := mustGrid(t, 4, 4)
	a := NewScalar(g)
	b := NewScalar(g)

	// Identical fields measure exactly zero.
	a.Fill(3.0)
	b.Fill(3.0)
	assert.Equal(t, 0.0, a.DiffL2(b))

	// A single differing node: sqrt(d^2 * cellArea).
	b.Set(2, 2, 5.0)
	want := math.Sqrt(4.0 * g.CellArea())
	assert.InDelta(t, want, a.DiffL2(b), 1e-15)
}

func TestScalar_DiffL2PanicsOnMismatch(t *testing.T) {
	a := NewScalar(mustGrid(t, 4, 4))
	b := NewScalar(mustGrid(t, 5, 5))
	assert.Panics(t, func() { a.DiffL2(b) })
}

func TestScalar_Finite(t *testing.T) {
	f := NewScalar(mustGrid(t, 4, 4))
	assert.True(t, f.Finite())

	f.Set(3, 3, math.NaN())
	assert.False(t, f.Finite())

	f.Set(3, 3, math.Inf(-1))
	assert.False(t, f.Finite())
}

func TestVector_MaxSpeed(t *testing.T) {
	w := NewVector(mustGrid(t, 4, 4))
	assert.Equal(t, 0.0, w.MaxSpeed())

	w.U.Set(1, 1, 3.0)
	w.V.Set(1, 1, 4.0)
	assert.InDelta(t, 5.0, w.MaxSpeed(), 1e-15)
	assert.True(t, w.Finite())
}
