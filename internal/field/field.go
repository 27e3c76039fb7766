// Package field holds the discrete scalar and vector unknowns that the
// solvers exchange.
package field

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/geodyn/convect/internal/grid"
)

// Scalar is a node-centred scalar field on a uniform grid. Row r holds
// the values at height Y[r], row 0 being the bottom boundary.
type Scalar struct {
	g    *grid.Uniform
	data *mat.Dense
}

func NewScalar(g *grid.Uniform) *Scalar {
	return &Scalar{g: g, data: mat.NewDense(g.Ny, g.Nx, nil)}
}

func (f *Scalar) Grid() *grid.Uniform { return f.g }
func (f *Scalar) Data() *mat.Dense    { return f.data }

func (f *Scalar) At(r, c int) float64     { return f.data.At(r, c) }
func (f *Scalar) Set(r, c int, v float64) { f.data.Set(r, c, v) }

// Compatible reports whether both fields share the same discretisation.
func (f *Scalar) Compatible(other *Scalar) bool {
	return other != nil && f.g.Nx == other.g.Nx && f.g.Ny == other.g.Ny
}

func (f *Scalar) Clone() *Scalar {
	c := NewScalar(f.g)
	c.data.Copy(f.data)
	return c
}

// CopyFrom overwrites the receiver with src. Grids must match.
func (f *Scalar) CopyFrom(src *Scalar) {
	f.data.Copy(src.data)
}

func (f *Scalar) Fill(v float64) {
	raw := f.data.RawMatrix().Data
	for i := range raw {
		raw[i] = v
	}
}

// SetRow fixes every node of row r to v, the usual way to impose a
// Dirichlet boundary along the top or bottom.
func (f *Scalar) SetRow(r int, v float64) {
	for c := 0; c < f.g.Nx; c++ {
		f.data.Set(r, c, v)
	}
}

// SetCol fixes every node of column c to v.
func (f *Scalar) SetCol(c int, v float64) {
	for r := 0; r < f.g.Ny; r++ {
		f.data.Set(r, c, v)
	}
}

func (f *Scalar) Min() float64 { return mat.Min(f.data) }
func (f *Scalar) Max() float64 { return mat.Max(f.data) }

func (f *Scalar) Mean() float64 {
	return stat.Mean(f.data.RawMatrix().Data, nil)
}

func (f *Scalar) MaxAbs() float64 {
	return math.Max(math.Abs(mat.Max(f.data)), math.Abs(mat.Min(f.data)))
}

// Finite reports whether every node holds a finite value.
func (f *Scalar) Finite() bool {
	for _, v := range f.data.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DiffL2 returns the area weighted L2 norm of the difference between
// the receiver and other. The grids must be compatible; check with
// Compatible first.
func (f *Scalar) DiffL2(other *Scalar) float64 {
	if !f.Compatible(other) {
		panic("field: DiffL2 on incompatible grids")
	}
	a := f.data.RawMatrix().Data
	b := other.data.RawMatrix().Data
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum * f.g.CellArea())
}

// Vector is a two component velocity field sharing one grid.
type Vector struct {
	U, V *Scalar
}

func NewVector(g *grid.Uniform) *Vector {
	return &Vector{U: NewScalar(g), V: NewScalar(g)}
}

func (w *Vector) Grid() *grid.Uniform { return w.U.g }

// MaxSpeed returns the largest node speed.
func (w *Vector) MaxSpeed() float64 {
	u := w.U.data.RawMatrix().Data
	v := w.V.data.RawMatrix().Data
	best := 0.0
	for i := range u {
		if s := math.Hypot(u[i], v[i]); s > best {
			best = s
		}
	}
	return best
}

func (w *Vector) Finite() bool {
	return w.U.Finite() && w.V.Finite()
}
