package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashlab/crashpulse/schema"
)

// decelSignal builds a signal whose velocity ramps down at a constant
// 150 m/s^2 from 15 m/s, the profile with a closed-form two-point answer.
func decelSignal() *schema.CrashSignal {
	n := 501
	sig := &schema.CrashSignal{
		TimeMs:         make([]float64, n),
		FilteredAccelG: make([]float64, n),
		VelocityKph:    make([]float64, n),
		SampleRate:     2000.0,
	}
	for i := range sig.TimeMs {
		tMs := float64(i) * 0.5
		sig.TimeMs[i] = tMs
		sig.VelocityKph[i] = math.Max(0, 15.0-150.0*tMs/1000.0) * 3.6
	}
	return sig
}

// TestOLCCalculator checks the strategy wrapper against the closed-form
// profile: OLC 18.86 g with restraint loading from 29.4 to 110.6 ms.
func TestOLCCalculator(t *testing.T) {
	vals, err := NewOLCCalculator().Calculate(decelSignal())
	require.NoError(t, err)

	assert.InDelta(t, 18.86, vals[schema.KeyOLC], 0.3)
	assert.InDelta(t, 29.4, vals[schema.KeyOLCT1], 2.0)
	assert.InDelta(t, 110.6, vals[schema.KeyOLCT2], 3.0)
}

// TestOLCCalculatorErrors checks the guard clauses.
func TestOLCCalculatorErrors(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		sig := &schema.CrashSignal{
			TimeMs:      []float64{0, 1, 2},
			VelocityKph: []float64{50, 40, 30},
		}
		_, err := NewOLCCalculator().Calculate(sig)
		assert.Error(t, err)
	})

	t.Run("no impact velocity", func(t *testing.T) {
		sig := decelSignal()
		for i := range sig.VelocityKph {
			sig.VelocityKph[i] = 0
		}
		_, err := NewOLCCalculator().Calculate(sig)
		assert.ErrorContains(t, err, "impact velocity")
	})
}

// TestOLCApprox checks the mean-deceleration proxy over its 150 ms window.
func TestOLCApprox(t *testing.T) {
	n := 211
	sig := &schema.CrashSignal{
		TimeMs:         make([]float64, n),
		FilteredAccelG: make([]float64, n),
	}
	for i := range sig.TimeMs {
		tMs := float64(i) - 10.0
		sig.TimeMs[i] = tMs
		switch {
		case tMs < 0:
			sig.FilteredAccelG[i] = 0.5 // pre-impact noise, excluded
		case tMs <= 150:
			sig.FilteredAccelG[i] = -20.0
		default:
			sig.FilteredAccelG[i] = -60.0 // tail, excluded
		}
	}

	vals, err := OLCApprox{}.Calculate(sig)
	require.NoError(t, err)
	assert.Equal(t, 20.0, vals[schema.KeyOLCApprox])
}

// TestOLCApproxNoWindow checks the guard when no sample lies in 0-150 ms.
func TestOLCApproxNoWindow(t *testing.T) {
	sig := &schema.CrashSignal{
		TimeMs:         []float64{-30, -20, -10},
		FilteredAccelG: []float64{0, 0, 0},
	}
	_, err := OLCApprox{}.Calculate(sig)
	assert.Error(t, err)
}

// TestStrategyNames pins the names used in error keys and logs.
func TestStrategyNames(t *testing.T) {
	assert.Equal(t, "BasicKinematics", BasicKinematics{}.Name())
	assert.Equal(t, "MaxDisplacement", MaxDisplacement{}.Name())
	assert.Equal(t, "EnergyAnalysis", EnergyAnalysis{}.Name())
	assert.Equal(t, "OLCCalculator", OLCCalculator{}.Name())
	assert.Equal(t, "OLCApprox", OLCApprox{}.Name())
}
