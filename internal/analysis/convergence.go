// Package analysis post-processes the diagnostics series of finished
// runs.
package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrTooFewSamples means the series had fewer than two positive
// entries, not enough to fit anything.
var ErrTooFewSamples = errors.New("analysis: need at least two positive samples")

// DecayFit is a log-linear fit of a convergence history, modelling
// metric as exp(Intercept + Rate*iter). Rate is negative while the run
// converges.
type DecayFit struct {
	Rate      float64
	Intercept float64
	R2        float64
	Samples   int
}

// FitDecay fits the positive entries of metric against their iteration
// index. Zero and non-finite entries are skipped; a converged run ends
// on an exact zero that has no logarithm.
func FitDecay(metric []float64) (*DecayFit, error) {
	xs := make([]float64, 0, len(metric))
	ys := make([]float64, 0, len(metric))
	for i, v := range metric {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, math.Log(v))
	}
	if len(xs) < 2 {
		return nil, ErrTooFewSamples
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return &DecayFit{
		Rate:      beta,
		Intercept: alpha,
		R2:        stat.RSquared(xs, ys, nil, alpha, beta),
		Samples:   len(xs),
	}, nil
}

// Halving returns the number of iterations the fitted decay needs to
// halve the metric. Infinite when the fit does not decay.
func (f *DecayFit) Halving() float64 {
	if f.Rate >= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / -f.Rate
}

// IterationsTo projects how many further iterations the fitted decay
// needs to bring the metric from current down to target. The second
// return is false when the fit does not decay or the inputs are not
// positive.
func (f *DecayFit) IterationsTo(current, target float64) (int, bool) {
	if current <= 0 || target <= 0 {
		return 0, false
	}
	if target >= current {
		return 0, true
	}
	if f.Rate >= 0 {
		return 0, false
	}
	return int(math.Ceil(math.Log(target/current) / f.Rate)), true
}
