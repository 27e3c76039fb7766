package physics

import (
	"math"

	"github.com/geodyn/convect/internal/field"
)

// InitTemperature fills t with the conductive profile between a hot
// bottom and a cold top plus a single harmonic perturbation that seeds
// the convective cell. amp zero gives the pure conductive state.
func InitTemperature(t *field.Scalar, amp float64) {
	g := t.Grid()
	for r := 0; r < g.Ny; r++ {
		y := g.Y[r]
		for c := 0; c < g.Nx; c++ {
			x := g.X[c]
			t.Set(r, c, (1.0-y)+amp*math.Cos(math.Pi*x)*math.Sin(math.Pi*y))
		}
	}
}
