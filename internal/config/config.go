// Package config loads, validates and persists run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNx           = 40
	DefaultNy           = 40
	DefaultRayleigh     = 1e4
	DefaultDiffusivity  = 1.0
	DefaultPerturbation = 0.05
	DefaultInitialDt    = 1e-6
	DefaultMaxDt        = 0.1
	DefaultTargetCFL    = 0.7
	DefaultIncrease     = 1.5
	DefaultTolerance    = 1e-9
	DefaultBudget       = 20000
	DefaultOutputEvery  = 50
	DefaultDataDir      = ".convect"
)

type Config struct {
	Scenario string        `yaml:"scenario"`
	Grid     GridConfig    `yaml:"grid"`
	Physics  PhysicsConfig `yaml:"physics"`
	Control  ControlConfig `yaml:"control"`
	Output   OutputConfig  `yaml:"output"`
}

type GridConfig struct {
	Nx int `yaml:"nx"`
	Ny int `yaml:"ny"`
}

type PhysicsConfig struct {
	Rayleigh     float64 `yaml:"rayleigh"`
	Diffusivity  float64 `yaml:"diffusivity"`
	Perturbation float64 `yaml:"perturbation"`
}

// ControlConfig holds the timestep and termination knobs.
type ControlConfig struct {
	InitialDt         float64 `yaml:"initial_dt"`
	MaxDt             float64 `yaml:"max_dt"`
	TargetCFL         float64 `yaml:"target_cfl"`
	IncreaseTolerance float64 `yaml:"increase_tolerance"`
	AdaptFirstStep    bool    `yaml:"adapt_first_step"`
	Tolerance         float64 `yaml:"tolerance"`
	Budget            int     `yaml:"budget"`
	OutputEvery       int     `yaml:"output_every"`
}

type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Quiet bool   `yaml:"quiet"`
}

func Default() *Config {
	return &Config{
		Scenario: "base",
		Grid: GridConfig{
			Nx: DefaultNx,
			Ny: DefaultNy,
		},
		Physics: PhysicsConfig{
			Rayleigh:     DefaultRayleigh,
			Diffusivity:  DefaultDiffusivity,
			Perturbation: DefaultPerturbation,
		},
		Control: ControlConfig{
			InitialDt:         DefaultInitialDt,
			MaxDt:             DefaultMaxDt,
			TargetCFL:         DefaultTargetCFL,
			IncreaseTolerance: DefaultIncrease,
			Tolerance:         DefaultTolerance,
			Budget:            DefaultBudget,
			OutputEvery:       DefaultOutputEvery,
		},
		Output: OutputConfig{
			Dir: DefaultDataDir,
		},
	}
}

// Load reads a YAML file over the defaults, so a partial file only
// overrides the keys it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Grid.Nx < 3 || c.Grid.Ny < 3 {
		return fmt.Errorf("config: grid needs at least 3 nodes per direction, got %dx%d", c.Grid.Nx, c.Grid.Ny)
	}
	if c.Physics.Rayleigh < 0 {
		return fmt.Errorf("config: rayleigh must not be negative, got %g", c.Physics.Rayleigh)
	}
	if c.Physics.Diffusivity <= 0 {
		return fmt.Errorf("config: diffusivity must be positive, got %g", c.Physics.Diffusivity)
	}
	if c.Control.InitialDt <= 0 {
		return fmt.Errorf("config: initial_dt must be positive, got %g", c.Control.InitialDt)
	}
	if c.Control.MaxDt <= 0 {
		return fmt.Errorf("config: max_dt must be positive, got %g", c.Control.MaxDt)
	}
	if c.Control.InitialDt > c.Control.MaxDt {
		return fmt.Errorf("config: initial_dt %g exceeds max_dt %g", c.Control.InitialDt, c.Control.MaxDt)
	}
	if c.Control.TargetCFL <= 0 {
		return fmt.Errorf("config: target_cfl must be positive, got %g", c.Control.TargetCFL)
	}
	if c.Control.IncreaseTolerance <= 1 {
		return fmt.Errorf("config: increase_tolerance must exceed 1, got %g", c.Control.IncreaseTolerance)
	}
	if c.Control.Tolerance <= 0 {
		return fmt.Errorf("config: tolerance must be positive, got %g", c.Control.Tolerance)
	}
	if c.Control.Budget <= 0 {
		return fmt.Errorf("config: budget must be positive, got %d", c.Control.Budget)
	}
	if c.Control.OutputEvery < 0 {
		return fmt.Errorf("config: output_every must not be negative, got %d", c.Control.OutputEvery)
	}
	return nil
}
