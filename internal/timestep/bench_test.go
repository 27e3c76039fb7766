package timestep

import (
	"testing"

	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/grid"
)

func BenchmarkUpdate(b *testing.B) {
	g, err := grid.UnitSquare(64, 64)
	if err != nil {
		b.Fatal(err)
	}
	vel := field.NewVector(g)
	vel.U.Fill(1.0)
	vel.V.Set(32, 32, 2.5)

	a, err := NewAdaptor(Config{InitialDt: 1e-6, MaxDt: 0.1, TargetCFL: 0.7, IncreaseTolerance: 1.5})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Update(vel); err != nil {
			b.Fatal(err)
		}
	}
}
