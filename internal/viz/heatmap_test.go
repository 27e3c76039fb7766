package viz

import (
	"strings"
	"testing"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
)

func TestHeatmap_Extremes(t *testing.T) {
	g, err := grid.UnitSquare(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	f := field.NewScalar(g)
	for r := 0; r < g.Ny; r++ {
		f.SetRow(r, 1.0-g.Y[r]) // hot bottom, cold top
	}

	out := Heatmap(f, 8, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 8", len(lines))
	}
	for _, line := range lines {
		if len(line) != 8 {
			t.Fatalf("line width = %d, want 8", len(line))
		}
	}

	// Top of the domain prints first and is the lightest shade; the
	// bottom boundary is the densest.
	if lines[0] != strings.Repeat(string(shades[0]), 8) {
		t.Errorf("top line = %q, want all lightest", lines[0])
	}
	if lines[7] != strings.Repeat(string(shades[len(shades)-1]), 8) {
		t.Errorf("bottom line = %q, want all densest", lines[7])
	}
}

func TestHeatmap_UniformField(t *testing.T) {
	g, err := grid.UnitSquare(6, 6)
	if err != nil {
		t.Fatal(err)
	}
	f := field.NewScalar(g)
	f.Fill(0.7)

	out := Heatmap(f, 6, 4)
	for _, line := range strings.Split(out, "\n") {
		if line != strings.Repeat(string(shades[0]), 6) {
			t.Errorf("uniform field line = %q", line)
		}
	}
}

func TestHeatmap_ClampsToGridSize(t *testing.T) {
	g, err := grid.UnitSquare(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	f := field.NewScalar(g)

	out := Heatmap(f, 100, 100)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Errorf("lines = %d, want the grid height", len(lines))
	}
	if len(lines[0]) != 4 {
		t.Errorf("width = %d, want the grid width", len(lines[0]))
	}
}
