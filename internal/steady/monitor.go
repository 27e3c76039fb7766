// Package steady decides when successive iterates of the monitored
// field are close enough to call the run converged.
package steady

import (
	"errors"
	"fmt"

	"github.com/geodyn/convect/internal/field"
)

// ErrIncompatibleFields reports a convergence check between fields on
// different discretisations. That is a wiring mistake rather than a
// runtime condition and is fatal to the run.
var ErrIncompatibleFields = errors.New("steady: fields live on different grids")

// Monitor measures how far the monitored field moved during one
// iteration and compares the distance against a fixed tolerance. It
// keeps no history between calls.
type Monitor struct {
	tol float64
}

func NewMonitor(tolerance float64) (*Monitor, error) {
	if tolerance <= 0 {
		return nil, fmt.Errorf("steady: tolerance must be positive, got %g", tolerance)
	}
	return &Monitor{tol: tolerance}, nil
}

func (m *Monitor) Tolerance() float64 { return m.tol }

// Measure returns the area weighted L2 norm of cur minus prev.
// Identical iterates measure exactly zero.
func (m *Monitor) Measure(cur, prev *field.Scalar) (float64, error) {
	if cur == nil || prev == nil || !cur.Compatible(prev) {
		return 0, ErrIncompatibleFields
	}
	return cur.DiffL2(prev), nil
}

// Converged reports whether the metric is strictly below tolerance.
func (m *Monitor) Converged(metric float64) bool {
	return metric < m.tol
}
