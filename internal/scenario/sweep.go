package scenario

import (
	"context"
	"math"
	"sync"

	"github.com/geodyn/convect/internal/config"
	"github.com/geodyn/convect/internal/diag"
	"github.com/geodyn/convect/internal/sim"
)

// Sweep runs one scenario across a range of Rayleigh numbers. Every
// instance owns an independent loop, adaptor and monitor, so the runs
// proceed concurrently without sharing any mutable state.
type Sweep struct {
	Base   *config.Config
	Values []float64
}

// SweepRow is the outcome of one sweep instance.
type SweepRow struct {
	Rayleigh   float64
	Status     sim.Status
	Iterations int
	Time       float64
	Metric     float64
	NusseltTop float64
	Err        error
}

// GeometricRange spaces n values multiplicatively between min and max
// inclusive, the natural spacing for Rayleigh numbers.
func GeometricRange(min, max float64, n int) []float64 {
	if n <= 1 || min <= 0 || max <= min {
		return []float64{min}
	}
	ratio := math.Pow(max/min, 1/float64(n-1))
	vals := make([]float64, n)
	v := min
	for i := range vals {
		vals[i] = v
		v *= ratio
	}
	vals[n-1] = max
	return vals
}

// Run executes every instance and returns the rows in Values order.
// Per-instance failures land in the row rather than aborting the
// sweep.
func (s *Sweep) Run(ctx context.Context) []SweepRow {
	rows := make([]SweepRow, len(s.Values))
	var wg sync.WaitGroup
	for i, ra := range s.Values {
		wg.Add(1)
		go func(i int, ra float64) {
			defer wg.Done()
			cfg := *s.Base
			cfg.Physics.Rayleigh = ra
			rows[i] = runOne(ctx, &cfg)
		}(i, ra)
	}
	wg.Wait()
	return rows
}

func runOne(ctx context.Context, cfg *config.Config) SweepRow {
	row := SweepRow{Rayleigh: cfg.Physics.Rayleigh}

	setup, err := Build(cfg)
	if err != nil {
		row.Err = err
		return row
	}
	loop, err := setup.NewLoop(nil, nil, nil)
	if err != nil {
		row.Err = err
		return row
	}

	res, err := loop.Run(ctx)
	row.Status = res.Status
	row.Iterations = res.Iterations
	row.Time = res.Time
	row.Metric = res.Metric
	row.NusseltTop = diag.NusseltTop(setup.Temp)
	row.Err = err
	return row
}
