package physics

import (
	"fmt"
	"math"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
)

// Buoyancy solves a reduced momentum balance for buoyancy driven flow:
// a stream function Poisson problem forced by lateral temperature
// gradients, differentiated into a divergence free velocity. The walls
// are impermeable and stress free, which the stream function encodes
// as psi = 0 on the whole boundary.
//
// The solve has no time derivative of its own; the coupling step is
// ignored and the velocity always balances the current temperature.
type Buoyancy struct {
	g   *grid.Uniform
	ra  float64
	t   *field.Scalar
	vel *field.Vector

	// psi persists between solves so each outer iteration warm starts
	// from the previous solution.
	psi     *field.Scalar
	forcing *field.Scalar

	sweepTol  float64
	maxSweeps int
}

// NewBuoyancy wires a momentum solver that reads t and writes vel in
// place. ra is the Rayleigh number; zero gives a motionless field.
func NewBuoyancy(g *grid.Uniform, ra float64, t *field.Scalar, vel *field.Vector) *Buoyancy {
	return &Buoyancy{
		g:         g,
		ra:        ra,
		t:         t,
		vel:       vel,
		psi:       field.NewScalar(g),
		forcing:   field.NewScalar(g),
		sweepTol:  1e-8,
		maxSweeps: 2000,
	}
}

func (b *Buoyancy) Name() string { return "momentum" }

// Velocity returns the field the solver writes, shared with the
// adaptor and the transport solver.
func (b *Buoyancy) Velocity() *field.Vector { return b.vel }

func (b *Buoyancy) Solve(dt float64) error {
	b.updateForcing()
	b.relax()
	b.differentiate()
	if !b.vel.Finite() {
		return fmt.Errorf("momentum: %w", ErrUnstable)
	}
	return nil
}

func (b *Buoyancy) updateForcing() {
	dx2 := 2 * b.g.Dx()
	for r := 1; r < b.g.Ny-1; r++ {
		for c := 1; c < b.g.Nx-1; c++ {
			dTdx := (b.t.At(r, c+1) - b.t.At(r, c-1)) / dx2
			b.forcing.Set(r, c, -b.ra*dTdx)
		}
	}
}

// relax runs Gauss-Seidel sweeps on the Poisson problem until the
// largest node update falls below sweepTol. The sweep cap is generous
// rather than fatal: any leftover residual is polished by the warm
// started solve of the next iteration.
func (b *Buoyancy) relax() {
	dx2 := b.g.Dx() * b.g.Dx()
	dy2 := b.g.Dy() * b.g.Dy()
	denom := 2 * (dx2 + dy2)

	for sweep := 0; sweep < b.maxSweeps; sweep++ {
		maxChange := 0.0
		for r := 1; r < b.g.Ny-1; r++ {
			for c := 1; c < b.g.Nx-1; c++ {
				next := ((b.psi.At(r, c-1)+b.psi.At(r, c+1))*dy2 +
					(b.psi.At(r-1, c)+b.psi.At(r+1, c))*dx2 -
					b.forcing.At(r, c)*dx2*dy2) / denom
				if ch := math.Abs(next - b.psi.At(r, c)); ch > maxChange {
					maxChange = ch
				}
				b.psi.Set(r, c, next)
			}
		}
		if maxChange < b.sweepTol {
			return
		}
	}
}

// differentiate recovers velocity from the stream function:
// u = dpsi/dy and v = -dpsi/dx. Boundary nodes take one sided
// tangential derivatives and a zero normal component.
func (b *Buoyancy) differentiate() {
	nx, ny := b.g.Nx, b.g.Ny
	dx, dy := b.g.Dx(), b.g.Dy()

	for r := 1; r < ny-1; r++ {
		for c := 1; c < nx-1; c++ {
			b.vel.U.Set(r, c, (b.psi.At(r+1, c)-b.psi.At(r-1, c))/(2*dy))
			b.vel.V.Set(r, c, -(b.psi.At(r, c+1)-b.psi.At(r, c-1))/(2*dx))
		}
	}

	for c := 0; c < nx; c++ {
		b.vel.U.Set(0, c, (b.psi.At(1, c)-b.psi.At(0, c))/dy)
		b.vel.V.Set(0, c, 0)
		b.vel.U.Set(ny-1, c, (b.psi.At(ny-1, c)-b.psi.At(ny-2, c))/dy)
		b.vel.V.Set(ny-1, c, 0)
	}
	for r := 1; r < ny-1; r++ {
		b.vel.U.Set(r, 0, 0)
		b.vel.V.Set(r, 0, -(b.psi.At(r, 1)-b.psi.At(r, 0))/dx)
		b.vel.U.Set(r, nx-1, 0)
		b.vel.V.Set(r, nx-1, -(b.psi.At(r, nx-1)-b.psi.At(r, nx-2))/dx)
	}
}
