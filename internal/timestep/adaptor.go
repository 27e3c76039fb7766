package timestep

import (
	"errors"
	"fmt"
	"math"

	"github.com/geodyn/convect/internal/field"
)

// ErrDegenerateField reports a velocity field with every node at rest,
// for which no finite stability bound exists. Callers substitute a
// fallback step and keep going; the condition is not fatal.
var ErrDegenerateField = errors.New("timestep: velocity field is uniformly zero")

// Config bounds the step sequence produced by an Adaptor.
type Config struct {
	// InitialDt seeds the sequence and is what the first Update returns
	// unless AdaptFirstStep is set.
	InitialDt float64

	// MaxDt is the hard ceiling on every chosen step.
	MaxDt float64

	// TargetCFL is the desired Courant number for the transport
	// solvers fed by the chosen step.
	TargetCFL float64

	// IncreaseTolerance caps per-step growth. A value of 1.5 allows at
	// most a 50% increase over the previously chosen step.
	IncreaseTolerance float64

	// AdaptFirstStep applies the stability estimate and the ceiling on
	// the first Update too. When false the first solve runs on
	// InitialDt untouched, the safe choice when the initial velocity is
	// still zero.
	AdaptFirstStep bool
}

func (c Config) validate() error {
	if c.InitialDt <= 0 {
		return fmt.Errorf("timestep: initial dt must be positive, got %g", c.InitialDt)
	}
	if c.MaxDt <= 0 {
		return fmt.Errorf("timestep: max dt must be positive, got %g", c.MaxDt)
	}
	if c.InitialDt > c.MaxDt {
		return fmt.Errorf("timestep: initial dt %g exceeds max dt %g", c.InitialDt, c.MaxDt)
	}
	if c.TargetCFL <= 0 {
		return fmt.Errorf("timestep: target CFL must be positive, got %g", c.TargetCFL)
	}
	if c.IncreaseTolerance <= 1 {
		return fmt.Errorf("timestep: increase tolerance must exceed 1, got %g", c.IncreaseTolerance)
	}
	return nil
}

// Adaptor produces the next coupling step from the most recent velocity
// solution. One adaptor belongs to exactly one driving loop; the only
// state it carries between calls is the previously chosen step.
type Adaptor struct {
	cfg     Config
	current float64
	primed  bool
}

func NewAdaptor(cfg Config) (*Adaptor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Adaptor{cfg: cfg, current: cfg.InitialDt}, nil
}

// Current returns the most recently chosen step, or InitialDt before
// the first Update.
func (a *Adaptor) Current() float64 { return a.current }

// Max returns the configured ceiling, the usual substitute when the
// field is degenerate.
func (a *Adaptor) Max() float64 { return a.cfg.MaxDt }

// EstimateStableStep returns the largest step that keeps every node at
// or below the target Courant number: the minimum over nodes of
// spacing over speed, scaled by TargetCFL. Nodes at rest impose no
// bound. A field with every node at rest has no finite bound and
// yields ErrDegenerateField.
func (a *Adaptor) EstimateStableStep(vel *field.Vector) (float64, error) {
	g := vel.Grid()
	h := g.MinExtent()
	best := math.Inf(1)
	for r := 0; r < g.Ny; r++ {
		for c := 0; c < g.Nx; c++ {
			speed := math.Max(math.Abs(vel.U.At(r, c)), math.Abs(vel.V.At(r, c)))
			if speed == 0 {
				continue
			}
			if s := h / speed; s < best {
				best = s
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0, ErrDegenerateField
	}
	return a.cfg.TargetCFL * best, nil
}

// Update chooses the next step as the tightest of the ceiling, the
// stability estimate and the growth bound over the previous step, then
// retains it for the next call. The first call skips the growth bound
// so a deliberately small InitialDt does not throttle the whole run.
//
// On ErrDegenerateField the retained step is left unchanged and the
// caller decides the substitute.
func (a *Adaptor) Update(vel *field.Vector) (float64, error) {
	if !a.primed {
		a.primed = true
		if !a.cfg.AdaptFirstStep {
			return a.current, nil
		}
		stable, err := a.EstimateStableStep(vel)
		if err != nil {
			return 0, err
		}
		a.current = math.Min(a.cfg.MaxDt, stable)
		return a.current, nil
	}

	stable, err := a.EstimateStableStep(vel)
	if err != nil {
		return 0, err
	}
	a.current = math.Min(a.cfg.MaxDt, math.Min(stable, a.current*a.cfg.IncreaseTolerance))
	return a.current, nil
}
