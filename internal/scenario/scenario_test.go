package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/geodyn/convect/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.GetPreset("base")
	cfg.Grid.Nx, cfg.Grid.Ny = 8, 8
	cfg.Control.Budget = 3
	cfg.Control.Tolerance = 1e-30
	cfg.Control.OutputEvery = 0
	return cfg
}

func TestBuild_WiresSolverOrder(t *testing.T) {
	setup, err := Build(smallConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(setup.Solvers) != 2 {
		t.Fatalf("solvers = %d, want 2", len(setup.Solvers))
	}
	if setup.Solvers[0].Name() != "momentum" {
		t.Errorf("first solver = %q, want momentum", setup.Solvers[0].Name())
	}
	if setup.Solvers[1].Name() != "energy" {
		t.Errorf("second solver = %q, want energy", setup.Solvers[1].Name())
	}
	if setup.Monitored.Current() != setup.Temp {
		t.Error("the monitored field must be the shared temperature")
	}
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Control.Budget = 0
	if _, err := Build(cfg); err == nil {
		t.Error("expected a validation error")
	}
}

func TestBuildPreset(t *testing.T) {
	if _, err := BuildPreset("still"); err != nil {
		t.Errorf("BuildPreset(still): %v", err)
	}
	if _, err := BuildPreset("volcano"); err == nil {
		t.Error("expected an unknown-preset error")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	want := map[string]bool{"base": false, "hot": false, "still": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("preset %q missing from %v", n, names)
		}
	}
}

func TestSetup_NewLoopRuns(t *testing.T) {
	setup, err := Build(smallConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	loop, err := setup.NewLoop(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	res, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Iterations != 3 {
		t.Errorf("iterations = %d, want the full budget", res.Iterations)
	}
}

func TestGeometricRange(t *testing.T) {
	vals := GeometricRange(1e3, 1e6, 4)
	if len(vals) != 4 {
		t.Fatalf("len = %d, want 4", len(vals))
	}
	if vals[0] != 1e3 || vals[3] != 1e6 {
		t.Errorf("endpoints = %g, %g", vals[0], vals[3])
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			t.Errorf("values not increasing: %v", vals)
		}
	}

	single := GeometricRange(50, 10, 5)
	if len(single) != 1 || single[0] != 50 {
		t.Errorf("degenerate range = %v, want just the minimum", single)
	}
}

func TestSweep_RunsEveryValue(t *testing.T) {
	sw := Sweep{
		Base:   smallConfig(),
		Values: []float64{0, 1e3, 1e4},
	}

	rows := sw.Run(context.Background())
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, row := range rows {
		if row.Rayleigh != sw.Values[i] {
			t.Errorf("row %d rayleigh = %g, want %g", i, row.Rayleigh, sw.Values[i])
		}
		if row.Err != nil {
			t.Errorf("row %d failed: %v", i, row.Err)
		}
		if row.Iterations != 3 {
			t.Errorf("row %d iterations = %d, want the full budget", i, row.Iterations)
		}
	}
}

func TestSweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sw := Sweep{Base: smallConfig(), Values: []float64{1e3, 1e4}}
	rows := sw.Run(ctx)
	for i, row := range rows {
		if !errors.Is(row.Err, context.Canceled) {
			t.Errorf("row %d err = %v, want context.Canceled", i, row.Err)
		}
		if row.Iterations != 0 {
			t.Errorf("row %d iterations = %d, want 0", i, row.Iterations)
		}
	}
}
