package config

import "sort"

// Presets are the built-in scenarios. Each entry is a complete,
// validated configuration; GetPreset hands out copies so callers can
// override fields freely.
var Presets = map[string]*Config{
	// Steady convection at moderate vigour. Converges well inside the
	// default budget on the default grid.
	"base": {
		Scenario: "base",
		Grid:     GridConfig{Nx: DefaultNx, Ny: DefaultNy},
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
		Output: OutputConfig{Dir: DefaultDataDir},
	},
	// Vigorous convection on a finer grid. Expect to exhaust the
	// budget before reaching a strict steady state.
	"hot": {
		Scenario: "hot",
		Grid:     GridConfig{Nx: 64, Ny: 64},
		Physics: PhysicsConfig{
			Rayleigh:     1e5,
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
		Output: OutputConfig{Dir: DefaultDataDir},
	},
	// No buoyancy at all: the perturbation just diffuses away. The
	// velocity stays identically zero, so every iteration takes the
	// degenerate-field fallback step.
	"still": {
		Scenario: "still",
		Grid:     GridConfig{Nx: 32, Ny: 32},
		Physics: PhysicsConfig{
			Rayleigh:     0,
			Diffusivity:  DefaultDiffusivity,
			Perturbation: DefaultPerturbation,
		},
		Control: ControlConfig{
			InitialDt:         DefaultInitialDt,
			MaxDt:             DefaultMaxDt,
			TargetCFL:         DefaultTargetCFL,
			IncreaseTolerance: DefaultIncrease,
			Tolerance:         DefaultTolerance,
			Budget:            5000,
			OutputEvery:       DefaultOutputEvery,
		},
		Output: OutputConfig{Dir: DefaultDataDir},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *base
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
