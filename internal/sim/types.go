package sim

import "github.com/geodyn/convect/internal/field"

// Solver is an external solve collaborator. Solve advances the
// collaborator's own fields in place over one coupling step. A nil
// return means the fields are valid for the rest of the iteration; any
// error is treated as fatal and the failed step is never retried.
type Solver interface {
	Name() string
	Solve(dt float64) error
}

// Monitored is implemented by the solver whose field drives the
// steady-state check. Previous returns the iterate captured just
// before the most recent Solve.
type Monitored interface {
	Current() *field.Scalar
	Previous() *field.Scalar
}

// Writer receives periodic and terminal snapshots of the run. Write
// failures are reported but never abort the run.
type Writer interface {
	WriteSnapshot(iter int, t float64) error
	Close() error
}

// RowLogger receives one diagnostics row per completed iteration.
type RowLogger interface {
	LogRow(iter int, t, dt, metric float64) error
	Close() error
}

// Result summarises a finished run.
type Result struct {
	Status     Status
	Iterations int
	Time       float64
	FinalDt    float64
	Metric     float64
}
