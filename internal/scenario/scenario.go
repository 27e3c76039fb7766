// Package scenario assembles complete solver stacks from
// configuration, so the commands and tests build runs the same way.
package scenario

import (
	"fmt"
	"log/slog"

	"github.com/geodyn/convect/internal/config"
	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
	"github.com/geodyn/convect/internal/physics"
	"github.com/geodyn/convect/internal/sim"
	"github.com/geodyn/convect/internal/steady"
	"github.com/geodyn/convect/internal/timestep"
)

// Setup is a fully wired but not yet running scenario.
type Setup struct {
	Cfg  *config.Config
	Grid *grid.Uniform
	Temp *field.Scalar
	Vel  *field.Vector

	Solvers   []sim.Solver
	Monitored sim.Monitored
	Adaptor   *timestep.Adaptor
	Monitor   *steady.Monitor
}

// Build wires grid, fields and solvers for cfg. The momentum solver is
// registered ahead of the energy solver so the energy equation advects
// with the velocity of the current iteration.
func Build(cfg *config.Config) (*Setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.UnitSquare(cfg.Grid.Nx, cfg.Grid.Ny)
	if err != nil {
		return nil, err
	}

	temp := field.NewScalar(g)
	physics.InitTemperature(temp, cfg.Physics.Perturbation)
	vel := field.NewVector(g)

	momentum := physics.NewBuoyancy(g, cfg.Physics.Rayleigh, temp, vel)
	energy := physics.NewEnergy(g, cfg.Physics.Diffusivity, temp, vel, 1.0, 0.0)

	adaptor, err := timestep.NewAdaptor(timestep.Config{
		InitialDt:         cfg.Control.InitialDt,
		MaxDt:             cfg.Control.MaxDt,
		TargetCFL:         cfg.Control.TargetCFL,
		IncreaseTolerance: cfg.Control.IncreaseTolerance,
		AdaptFirstStep:    cfg.Control.AdaptFirstStep,
	})
	if err != nil {
		return nil, err
	}

	monitor, err := steady.NewMonitor(cfg.Control.Tolerance)
	if err != nil {
		return nil, err
	}

	return &Setup{
		Cfg:       cfg,
		Grid:      g,
		Temp:      temp,
		Vel:       vel,
		Solvers:   []sim.Solver{momentum, energy},
		Monitored: energy,
		Adaptor:   adaptor,
		Monitor:   monitor,
	}, nil
}

// BuildPreset builds the named built-in scenario.
func BuildPreset(name string) (*Setup, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("scenario: unknown preset %q (available: %v)", name, Names())
	}
	return Build(cfg)
}

// Names lists the built-in scenarios.
func Names() []string {
	return config.ListPresets()
}

// NewLoop finishes the wiring with the run scoped collaborators.
// Writer, rows and logger may all be nil.
func (s *Setup) NewLoop(w sim.Writer, rows sim.RowLogger, logger *slog.Logger) (*sim.Loop, error) {
	return sim.NewLoop(sim.Config{
		Budget:      s.Cfg.Control.Budget,
		OutputEvery: s.Cfg.Control.OutputEvery,
		Adaptor:     s.Adaptor,
		Monitor:     s.Monitor,
		Solvers:     s.Solvers,
		Velocity:    s.Vel,
		Monitored:   s.Monitored,
		Writer:      w,
		Rows:        rows,
		Logger:      logger,
	})
}
