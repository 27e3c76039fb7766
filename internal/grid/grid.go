// Package grid provides the uniform structured grids the field and
// physics layers operate on.
package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Uniform is a rectangular grid of Nx by Ny nodes spanning [0,Lx] x
// [0,Ly]. Row index 0 sits on the bottom boundary (y = 0) and y grows
// upward.
type Uniform struct {
	Nx, Ny int
	Lx, Ly float64

	// X and Y hold the node coordinates along each axis.
	X, Y []float64

	dx, dy float64
}

func NewUniform(nx, ny int, lx, ly float64) (*Uniform, error) {
	if nx < 3 || ny < 3 {
		return nil, fmt.Errorf("grid: need at least 3 nodes per direction, got %dx%d", nx, ny)
	}
	if lx <= 0 || ly <= 0 {
		return nil, fmt.Errorf("grid: extents must be positive, got %gx%g", lx, ly)
	}
	return &Uniform{
		Nx: nx, Ny: ny,
		Lx: lx, Ly: ly,
		X:  floats.Span(make([]float64, nx), 0, lx),
		Y:  floats.Span(make([]float64, ny), 0, ly),
		dx: lx / float64(nx-1),
		dy: ly / float64(ny-1),
	}, nil
}

// UnitSquare is the standard benchmark domain.
func UnitSquare(nx, ny int) (*Uniform, error) {
	return NewUniform(nx, ny, 1.0, 1.0)
}

func (g *Uniform) Dx() float64 { return g.dx }
func (g *Uniform) Dy() float64 { return g.dy }

// MinExtent returns the smallest node spacing, the reference length for
// stability estimates.
func (g *Uniform) MinExtent() float64 {
	if g.dx < g.dy {
		return g.dx
	}
	return g.dy
}

// CellArea is the quadrature weight of one node in integral reductions.
func (g *Uniform) CellArea() float64 { return g.dx * g.dy }

func (g *Uniform) Shape() (ny, nx int) { return g.Ny, g.Nx }
