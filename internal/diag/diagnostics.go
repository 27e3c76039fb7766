// Package diag computes the standard scalar reductions of a run and
// streams them to the per-run series log.
package diag

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/geodyn/convect/internal/field"
)

// RMSVelocity is the domain averaged root mean square speed.
func RMSVelocity(vel *field.Vector) float64 {
	u := vel.U.Data().RawMatrix().Data
	v := vel.V.Data().RawMatrix().Data
	sum := 0.0
	for i := range u {
		sum += u[i]*u[i] + v[i]*v[i]
	}
	return math.Sqrt(sum / float64(len(u)))
}

// RMSVelocityTop is the root mean square horizontal speed along the
// surface row.
func RMSVelocityTop(vel *field.Vector) float64 {
	g := vel.Grid()
	top := g.Ny - 1
	sum := 0.0
	for c := 0; c < g.Nx; c++ {
		u := vel.U.At(top, c)
		sum += u * u
	}
	return math.Sqrt(sum / float64(g.Nx))
}

// MaxSurfaceSpeed is the largest horizontal speed along the surface
// row.
func MaxSurfaceSpeed(vel *field.Vector) float64 {
	g := vel.Grid()
	top := g.Ny - 1
	best := 0.0
	for c := 0; c < g.Nx; c++ {
		if s := math.Abs(vel.U.At(top, c)); s > best {
			best = s
		}
	}
	return best
}

// NusseltTop is the mean heat flux through the surface, normalised so
// the purely conductive profile gives exactly one.
func NusseltTop(t *field.Scalar) float64 {
	g := t.Grid()
	top := g.Ny - 1
	sum := 0.0
	for c := 0; c < g.Nx; c++ {
		sum += -(t.At(top, c) - t.At(top-1, c)) / g.Dy()
	}
	return sum / float64(g.Nx)
}

// NusseltBottom is the mean heat flux through the base, with the same
// normalisation as NusseltTop. At steady state the two agree.
func NusseltBottom(t *field.Scalar) float64 {
	g := t.Grid()
	sum := 0.0
	for c := 0; c < g.Nx; c++ {
		sum += -(t.At(1, c) - t.At(0, c)) / g.Dy()
	}
	return sum / float64(g.Nx)
}

// AvgTemperature is the domain mean temperature.
func AvgTemperature(t *field.Scalar) float64 {
	return stat.Mean(t.Data().RawMatrix().Data, nil)
}
