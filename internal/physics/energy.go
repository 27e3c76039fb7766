package physics

import (
	"fmt"
	"math"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
)

// Energy advances temperature by explicit upwind advection and central
// diffusion. The bottom and top boundaries hold fixed temperatures and
// the side walls are insulated.
//
// One Solve covers the whole coupling step regardless of its size: the
// explicit update is substepped internally whenever the step exceeds
// the local stability bound, so a ceiling sized fallback step cannot
// blow the scheme up.
//
// Energy retains the iterate from just before each Solve and therefore
// backs the steady-state check.
type Energy struct {
	g     *grid.Uniform
	kappa float64
	t     *field.Scalar
	prev  *field.Scalar
	next  *field.Scalar
	vel   *field.Vector

	bottomT, topT float64
}

// NewEnergy wires a transport solver that advects t with vel in place.
// kappa is the thermal diffusivity.
func NewEnergy(g *grid.Uniform, kappa float64, t *field.Scalar, vel *field.Vector, bottomT, topT float64) *Energy {
	return &Energy{
		g:       g,
		kappa:   kappa,
		t:       t,
		prev:    field.NewScalar(g),
		next:    field.NewScalar(g),
		vel:     vel,
		bottomT: bottomT,
		topT:    topT,
	}
}

func (e *Energy) Name() string { return "energy" }

// Current returns the live temperature iterate.
func (e *Energy) Current() *field.Scalar { return e.t }

// Previous returns the iterate captured at the start of the most
// recent Solve.
func (e *Energy) Previous() *field.Scalar { return e.prev }

func (e *Energy) Solve(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("energy: step must be positive, got %g", dt)
	}
	e.prev.CopyFrom(e.t)

	n := e.substeps(dt)
	h := dt / float64(n)
	for s := 0; s < n; s++ {
		e.step(h)
	}

	if !e.t.Finite() {
		return fmt.Errorf("energy: %w", ErrUnstable)
	}
	return nil
}

// substeps splits dt so each explicit substep respects both the
// diffusive and the advective stability bounds.
func (e *Energy) substeps(dt float64) int {
	h := e.g.MinExtent()
	stable := 0.2 * h * h / e.kappa
	if speed := e.vel.MaxSpeed(); speed > 0 {
		if adv := 0.5 * h / speed; adv < stable {
			stable = adv
		}
	}
	if dt <= stable {
		return 1
	}
	return int(math.Ceil(dt / stable))
}

func (e *Energy) step(h float64) {
	nx, ny := e.g.Nx, e.g.Ny
	dx, dy := e.g.Dx(), e.g.Dy()

	for r := 1; r < ny-1; r++ {
		for c := 1; c < nx-1; c++ {
			u := e.vel.U.At(r, c)
			v := e.vel.V.At(r, c)

			var dTdx float64
			if u > 0 {
				dTdx = (e.t.At(r, c) - e.t.At(r, c-1)) / dx
			} else {
				dTdx = (e.t.At(r, c+1) - e.t.At(r, c)) / dx
			}
			var dTdy float64
			if v > 0 {
				dTdy = (e.t.At(r, c) - e.t.At(r-1, c)) / dy
			} else {
				dTdy = (e.t.At(r+1, c) - e.t.At(r, c)) / dy
			}

			lap := (e.t.At(r, c+1)-2*e.t.At(r, c)+e.t.At(r, c-1))/(dx*dx) +
				(e.t.At(r+1, c)-2*e.t.At(r, c)+e.t.At(r-1, c))/(dy*dy)

			e.next.Set(r, c, e.t.At(r, c)+h*(e.kappa*lap-u*dTdx-v*dTdy))
		}
	}

	// Insulated sides, then the fixed rows, which also pin the corners.
	for r := 1; r < ny-1; r++ {
		e.next.Set(r, 0, e.next.At(r, 1))
		e.next.Set(r, nx-1, e.next.At(r, nx-2))
	}
	e.next.SetRow(0, e.bottomT)
	e.next.SetRow(ny-1, e.topT)

	e.t.CopyFrom(e.next)
}
