package metric

import (
	"errors"
	"math"

	"github.com/crashlab/crashpulse/core/olc"
	"github.com/crashlab/crashpulse/schema"
)

// OLCCalculator wraps the two-point OLC solve. It needs the impact speed the
// integration was seeded with; without one the vehicle velocity at onset is
// used as the best available estimate.
//
// Two OLC definitions coexist in this domain: this precise Euro NCAP solve
// and the mean-deceleration proxy implemented by OLCApprox. They produce
// different numbers and are persisted under different keys; pick per run via
// configuration, never silently swap one for the other.
type OLCCalculator struct {
	Targets olc.Targets
}

// NewOLCCalculator returns the calculator with standardized targets.
func NewOLCCalculator() OLCCalculator {
	return OLCCalculator{Targets: olc.DefaultTargets()}
}

// Name implements Strategy.
func (OLCCalculator) Name() string { return "OLCCalculator" }

// Calculate implements Strategy.
func (c OLCCalculator) Calculate(sig *schema.CrashSignal) (map[string]float64, error) {
	n := sig.Len()
	if n < 10 {
		return nil, errors.New("signal too short for OLC solve")
	}

	timeS := make([]float64, n)
	velocityMps := make([]float64, n)
	for i := range sig.TimeMs {
		timeS[i] = sig.TimeMs[i] / 1000.0
		velocityMps[i] = sig.VelocityKph[i] / 3.6
	}

	v0 := velocityMps[sig.ImpactStartIndex]
	if v0 <= 0 {
		return nil, errors.New("no positive impact velocity for OLC solve")
	}

	res, err := olc.Calculate(timeS, velocityMps, v0, c.Targets)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		schema.KeyOLC:   round2(res.OLCg),
		schema.KeyOLCT1: round1(res.T1S * 1000.0),
		schema.KeyOLCT2: round1(res.T2S * 1000.0),
	}, nil
}

// olcApproxWindowMs is the averaging window of the proxy definition.
const olcApproxWindowMs = 150.0

// OLCApprox is the simplified OLC proxy: mean absolute deceleration over the
// first 150 ms of the pulse. Cheap, solver-free, and widely reported, but
// not the same quantity as the two-point solve.
type OLCApprox struct{}

// Name implements Strategy.
func (OLCApprox) Name() string { return "OLCApprox" }

// Calculate implements Strategy.
func (OLCApprox) Calculate(sig *schema.CrashSignal) (map[string]float64, error) {
	sum := 0.0
	count := 0
	for i, t := range sig.TimeMs {
		if t < 0 || t > olcApproxWindowMs {
			continue
		}
		sum += math.Abs(sig.FilteredAccelG[i])
		count++
	}
	if count == 0 {
		return nil, errors.New("no data in 0-150ms range")
	}

	return map[string]float64{
		schema.KeyOLCApprox: round2(sum / float64(count)),
	}, nil
}
