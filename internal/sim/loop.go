package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/steady"
	"github.com/geodyn/convect/internal/timestep"
)

// Config wires a Loop. Adaptor, Monitor, Velocity, Monitored and at
// least one solver are required. Writer and Rows are optional; Logger
// defaults to a discarding logger.
type Config struct {
	StartTime float64

	// Budget is the hard cap on iterations.
	Budget int

	// OutputEvery is the snapshot cadence in iterations, counted from
	// iteration zero. Zero disables periodic snapshots; the terminal
	// snapshot is still written.
	OutputEvery int

	Adaptor   *timestep.Adaptor
	Monitor   *steady.Monitor
	Solvers   []Solver
	Velocity  *field.Vector
	Monitored Monitored

	Writer Writer
	Rows   RowLogger
	Logger *slog.Logger
}

// Loop drives the solver collaborators through the
// adapt-advance-solve-measure cycle until the monitored field stops
// moving or the iteration budget runs out. Solvers run in registration
// order every iteration; the momentum solver must be registered ahead
// of the transport solver that advects with its velocity.
//
// A Loop is single threaded and not safe for concurrent use.
// Independent runs each own their loop, adaptor and monitor.
type Loop struct {
	clock   *Clock
	adaptor *timestep.Adaptor
	monitor *steady.Monitor
	solvers []Solver
	vel     *field.Vector
	mon     Monitored
	writer  Writer
	rows    RowLogger
	log     *slog.Logger

	budget      int
	outputEvery int

	status Status
	iter   int
	metric float64
	closed bool
}

func NewLoop(cfg Config) (*Loop, error) {
	if cfg.Budget <= 0 {
		return nil, fmt.Errorf("sim: budget must be positive, got %d", cfg.Budget)
	}
	if cfg.OutputEvery < 0 {
		return nil, fmt.Errorf("sim: output cadence must not be negative, got %d", cfg.OutputEvery)
	}
	if cfg.Adaptor == nil {
		return nil, errors.New("sim: timestep adaptor is required")
	}
	if cfg.Monitor == nil {
		return nil, errors.New("sim: convergence monitor is required")
	}
	if len(cfg.Solvers) == 0 {
		return nil, errors.New("sim: at least one solver is required")
	}
	if cfg.Velocity == nil {
		return nil, errors.New("sim: velocity field is required")
	}
	if cfg.Monitored == nil {
		return nil, errors.New("sim: monitored solver is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		clock:       NewClock(cfg.StartTime, cfg.Adaptor.Current()),
		adaptor:     cfg.Adaptor,
		monitor:     cfg.Monitor,
		solvers:     cfg.Solvers,
		vel:         cfg.Velocity,
		mon:         cfg.Monitored,
		writer:      cfg.Writer,
		rows:        cfg.Rows,
		log:         log,
		budget:      cfg.Budget,
		outputEvery: cfg.OutputEvery,
		status:      StatusInitialising,
	}, nil
}

func (l *Loop) Status() Status  { return l.status }
func (l *Loop) Iteration() int  { return l.iter }
func (l *Loop) Time() float64   { return l.clock.Time() }
func (l *Loop) Dt() float64     { return l.clock.Dt() }
func (l *Loop) Metric() float64 { return l.metric }

// Step runs one full iteration and reports the resulting status. Once
// the loop reaches a terminal status further calls are no-ops. A
// non-nil error means the run is dead: the collaborators have been
// closed and the failed iteration is not retried.
func (l *Loop) Step() (Status, error) {
	if l.status.Terminal() {
		return l.status, nil
	}
	if l.status == StatusInitialising {
		l.log.Info("run starting",
			"budget", l.budget,
			"tolerance", l.monitor.Tolerance(),
			"initial_dt", l.adaptor.Current())
		l.status = StatusStepping
	}

	k := l.iter

	if l.writer != nil && l.outputEvery > 0 && k%l.outputEvery == 0 {
		if err := l.writer.WriteSnapshot(k, l.clock.Time()); err != nil {
			l.log.Warn("snapshot write failed", "iter", k, "err", err)
		}
	}

	dt, err := l.adaptor.Update(l.vel)
	if err != nil {
		if !errors.Is(err, timestep.ErrDegenerateField) {
			return l.fail("timestep update", err)
		}
		dt = l.adaptor.Max()
		l.log.Warn("velocity field degenerate, substituting maximum timestep",
			"iter", k, "dt", dt)
	}
	l.clock.Advance(dt)

	for _, sv := range l.solvers {
		if err := sv.Solve(dt); err != nil {
			return l.fail(sv.Name()+" solve", err)
		}
	}

	metric, err := l.monitor.Measure(l.mon.Current(), l.mon.Previous())
	if err != nil {
		return l.fail("convergence measure", err)
	}
	l.metric = metric
	l.iter++

	if l.rows != nil {
		if err := l.rows.LogRow(k, l.clock.Time(), dt, metric); err != nil {
			l.log.Warn("diagnostics row failed", "iter", k, "err", err)
		}
	}

	if l.monitor.Converged(metric) {
		l.finish(StatusConverged)
	} else if l.iter >= l.budget {
		l.finish(StatusBudgetExhausted)
	}
	return l.status, nil
}

// Run steps until a terminal status. Cancellation is honoured at
// iteration boundaries only; a cancelled Run closes the collaborators
// and returns the context error together with the partial result. The
// returned result is valid on every exit path.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	for !l.status.Terminal() {
		select {
		case <-ctx.Done():
			l.log.Info("run cancelled", "iteration", l.iter, "time", l.clock.Time())
			l.cleanup()
			return l.result(), ctx.Err()
		default:
		}
		if _, err := l.Step(); err != nil {
			return l.result(), err
		}
	}
	return l.result(), nil
}

func (l *Loop) fail(op string, err error) (Status, error) {
	l.cleanup()
	return l.status, &StepError{Op: op, Iter: l.iter, Time: l.clock.Time(), Err: err}
}

func (l *Loop) finish(st Status) {
	l.status = st
	l.log.Info("run finished",
		"status", st.String(),
		"iterations", l.iter,
		"time", l.clock.Time(),
		"metric", l.metric)
	if l.writer != nil {
		if err := l.writer.WriteSnapshot(l.iter, l.clock.Time()); err != nil {
			l.log.Warn("final snapshot failed", "err", err)
		}
	}
	l.cleanup()
}

// cleanup closes the writer and row logger once. Close errors are
// reported and swallowed so that every exit path can call it.
func (l *Loop) cleanup() {
	if l.closed {
		return
	}
	l.closed = true
	if l.writer != nil {
		if err := l.writer.Close(); err != nil {
			l.log.Warn("writer close failed", "err", err)
		}
	}
	if l.rows != nil {
		if err := l.rows.Close(); err != nil {
			l.log.Warn("diagnostics close failed", "err", err)
		}
	}
}

func (l *Loop) result() *Result {
	return &Result{
		Status:     l.status,
		Iterations: l.iter,
		Time:       l.clock.Time(),
		FinalDt:    l.clock.Dt(),
		Metric:     l.metric,
	}
}
