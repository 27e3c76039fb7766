package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
)

func unitSetup(t *testing.T, nx, ny int, ra float64) (*grid.Uniform, *field.Scalar, *field.Vector, *Buoyancy, *Energy) {
	t.Helper()
	g, err := grid.UnitSquare(nx, ny)
	require.NoError(t, err)
	temp := field.NewScalar(g)
	InitTemperature(temp, 0.05)
	vel := field.NewVector(g)
	return g, temp, vel,
		NewBuoyancy(g, ra, temp, vel),
		NewEnergy(g, 1.0, temp, vel, 1.0, 0.0)
}

func TestInitTemperature(t *testing.T) {
	g, err := grid.UnitSquare(16, 16)
	require.NoError(t, err)
	temp := field.NewScalar(g)
	InitTemperature(temp, 0.05)

	// The boundary rows carry the conductive values exactly.
	for c := 0; c < g.Nx; c++ {
		assert.InDelta(t, 1.0, temp.At(0, c), 1e-12)
		assert.InDelta(t, 0.0, temp.At(g.Ny-1, c), 1e-12)
	}
	// The perturbation tilts the interior off the conductive profile.
	mid := g.Ny / 2
	assert.NotEqual(t, temp.At(mid, 0), temp.At(mid, g.Nx-1))
	assert.True(t, temp.Finite())
}

func TestBuoyancy_ZeroRayleighStaysStill(t *testing.T) {
	_, _, vel, momentum, _ := unitSetup(t, 16, 16, 0)

	require.NoError(t, momentum.Solve(0.1))
	assert.Equal(t, 0.0, vel.MaxSpeed(), "no buoyancy forcing must mean no flow")
}

func TestBuoyancy_DrivesFlowAndRespectsWalls(t *testing.T) {
	g, _, vel, momentum, _ := unitSetup(t, 16, 16, 1e4)

	require.NoError(t, momentum.Solve(0.1))
	assert.Greater(t, vel.MaxSpeed(), 0.0, "lateral gradients must drive a flow")
	assert.True(t, vel.Finite())

	// Impermeable walls: no normal component anywhere on the boundary.
	for c := 0; c < g.Nx; c++ {
		assert.Equal(t, 0.0, vel.V.At(0, c))
		assert.Equal(t, 0.0, vel.V.At(g.Ny-1, c))
	}
	for r := 0; r < g.Ny; r++ {
		assert.Equal(t, 0.0, vel.U.At(r, 0))
		assert.Equal(t, 0.0, vel.U.At(r, g.Nx-1))
	}
}

func TestBuoyancy_WarmStartIsStable(t *testing.T) {
	_, _, vel, momentum, _ := unitSetup(t, 16, 16, 1e4)

	require.NoError(t, momentum.Solve(0.1))
	first := vel.MaxSpeed()

	// Unchanged temperature: the warm started solve reproduces the
	// same velocity.
	require.NoError(t, momentum.Solve(0.1))
	assert.InDelta(t, first, vel.MaxSpeed(), 1e-6*first)
}

func TestEnergy_HoldsBoundaries(t *testing.T) {
	g, _, _, _, energy := unitSetup(t, 16, 16, 0)

	require.NoError(t, energy.Solve(1e-3))
	temp := energy.Current()
	for c := 0; c < g.Nx; c++ {
		assert.InDelta(t, 1.0, temp.At(0, c), 1e-12)
		assert.InDelta(t, 0.0, temp.At(g.Ny-1, c), 1e-12)
	}
}

func TestEnergy_RetainsPreSolveIterate(t *testing.T) {
	_, temp, _, _, energy := unitSetup(t, 16, 16, 0)
	before := temp.Clone()

	require.NoError(t, energy.Solve(1e-3))

	assert.Equal(t, 0.0, before.DiffL2(energy.Previous()),
		"Previous must hold the iterate from just before the solve")
	assert.Greater(t, energy.Current().DiffL2(energy.Previous()), 0.0,
		"the solve must move the live iterate off the retained one")
	assert.Same(t, temp, energy.Current(), "the live iterate keeps its identity")
}

// A ceiling sized step on a fine grid far exceeds the explicit
// stability bound; internal substepping has to absorb it.
func TestEnergy_SubstepsLargeSteps(t *testing.T) {
	_, _, _, _, energy := unitSetup(t, 32, 32, 0)

	assert.Equal(t, 1, energy.substeps(1e-6), "a tiny step runs unsplit")
	assert.Greater(t, energy.substeps(0.1), 1, "a ceiling sized step must split")

	require.NoError(t, energy.Solve(0.1))
	assert.True(t, energy.Current().Finite(), "substepped diffusion must stay finite")

	// The perturbation decays toward the conductive profile rather
	// than amplifying.
	require.NoError(t, energy.Solve(0.1))
	assert.True(t, energy.Current().Finite())
	assert.LessOrEqual(t, energy.Current().Max(), 1.0+1e-9)
	assert.GreaterOrEqual(t, energy.Current().Min(), -1e-9)
}

func TestEnergy_RejectsNonPositiveStep(t *testing.T) {
	_, _, _, _, energy := unitSetup(t, 8, 8, 0)
	assert.Error(t, energy.Solve(0))
	assert.Error(t, energy.Solve(-0.1))
}

func TestEnergy_AdvectionFollowsFlow(t *testing.T) {
	g, err := grid.UnitSquare(16, 16)
	require.NoError(t, err)
	temp := field.NewScalar(g)
	// A horizontal ramp with fixed, equal top and bottom rows so the
	// Dirichlet rows do not mask the advection.
	for r := 0; r < g.Ny; r++ {
		for c := 0; c < g.Nx; c++ {
			temp.Set(r, c, g.X[c])
		}
	}
	vel := field.NewVector(g)
	vel.U.Fill(1.0) // uniform rightward wind

	energy := NewEnergy(g, 1e-6, temp, vel, 0.0, 0.0)
	require.NoError(t, energy.Solve(1e-3))

	// dT/dt = -u dT/dx < 0 for an increasing ramp.
	mid := g.Ny / 2
	assert.Less(t, temp.At(mid, g.Nx/2), energy.Previous().At(mid, g.Nx/2))
}
