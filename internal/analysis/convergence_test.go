package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitDecay_RecoversExactRate(t *testing.T) {
	metric := make([]float64, 40)
	for i := range metric {
		metric[i] = 0.5 * math.Exp(-0.2*float64(i))
	}

	fit, err := FitDecay(metric)
	require.NoError(t, err)

	assert.InDelta(t, -0.2, fit.Rate, 1e-9)
	assert.InDelta(t, math.Log(0.5), fit.Intercept, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
	assert.Equal(t, 40, fit.Samples)
}

func TestFitDecay_SkipsNonPositive(t *testing.T) {
	metric := []float64{1.0, 0.5, 0.0, 0.25, math.NaN(), 0.125, math.Inf(1)}

	fit, err := FitDecay(metric)
	require.NoError(t, err)
	assert.Equal(t, 4, fit.Samples)
	assert.Less(t, fit.Rate, 0.0)
}

func TestFitDecay_TooFewSamples(t *testing.T) {
	_, err := FitDecay([]float64{0, 0, 0})
	assert.ErrorIs(t, err, ErrTooFewSamples)

	_, err = FitDecay([]float64{1.0})
	assert.ErrorIs(t, err, ErrTooFewSamples)

	_, err = FitDecay(nil)
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestHalving(t *testing.T) {
	decaying := &DecayFit{Rate: -math.Ln2}
	assert.InDelta(t, 1.0, decaying.Halving(), 1e-12)

	flat := &DecayFit{Rate: 0}
	assert.True(t, math.IsInf(flat.Halving(), 1))
}

func TestIterationsTo(t *testing.T) {
	fit := &DecayFit{Rate: -0.2}

	n, ok := fit.IterationsTo(1e-3, 1e-9)
	require.True(t, ok)
	assert.Equal(t, 70, n)

	// Already at or below the target.
	n, ok = fit.IterationsTo(1e-10, 1e-9)
	require.True(t, ok)
	assert.Equal(t, 0, n)

	// A non-decaying fit projects nothing.
	_, ok = (&DecayFit{Rate: 0.1}).IterationsTo(1e-3, 1e-9)
	assert.False(t, ok)

	// Nonsense inputs.
	_, ok = fit.IterationsTo(0, 1e-9)
	assert.False(t, ok)
	_, ok = fit.IterationsTo(1e-3, 0)
	assert.False(t, ok)
}
