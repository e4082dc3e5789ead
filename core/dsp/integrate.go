package dsp

import (
	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// Params bundles the signal-processing knobs for one reconstruction run.
type Params struct {
	CFC            int
	BiasWindowMs   float64
	BiasLimitRatio float64
	AnchorG        float64
	ReleaseG       float64

	// KnownImpactMps seeds the velocity integration when HasKnownImpact is
	// set; a metadata-derived impact speed is far more accurate than
	// integrating up from zero.
	KnownImpactMps float64
	HasKnownImpact bool
}

// CumTrapz returns the cumulative trapezoidal integral of y over x, with the
// same length as the inputs and 0 at index 0.
func CumTrapz(y, x []float64) []float64 {
	out := make([]float64, len(y))
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + 0.5*(y[i]+y[i-1])*(x[i]-x[i-1])
	}
	return out
}

// Reconstruct runs the canonical pipeline (CFC filter, minimum-variance
// bias removal, anchor-and-backtrack onset detection, then constrained
// double integration) and returns the immutable CrashSignal.
//
// Velocity starts at the known impact speed (or zero), accumulates the
// trapezoidal integral of onset-zeroed acceleration, and is clamped to zero
// from the first index where it crosses zero: post-stop oscillation is not
// physical in this model. Displacement integrates velocity from onset to the
// stop index and holds constant afterwards. Everything before the onset is
// zero in all derived sequences.
func Reconstruct(timeS, rawG []float64, p Params) (*schema.CrashSignal, error) {
	n := len(timeS)
	if n < contract.MinSamples || len(rawG) != n {
		return nil, contract.ErrDataTooShort
	}
	dt := timeS[1] - timeS[0]
	if dt <= 0 {
		return nil, contract.ErrTimeVector
	}
	fs := 1.0 / dt

	filtered := ApplyCFCFilter(rawG, fs, p.CFC)

	bias := FindBestBias(filtered, fs, p.BiasWindowMs, p.BiasLimitRatio)
	correctedG := make([]float64, n)
	accelMps2 := make([]float64, n)
	for i := range filtered {
		correctedG[i] = filtered[i] - bias
		accelMps2[i] = correctedG[i] * schema.Gravity
	}

	startIdx := FindImpactStart(accelMps2, fs, p.AnchorG, p.ReleaseG)

	// Pre-onset noise must not leak into the integrals.
	for i := 0; i < startIdx; i++ {
		accelMps2[i] = 0.0
		correctedG[i] = 0.0
	}

	initialV := 0.0
	if p.HasKnownImpact {
		initialV = p.KnownImpactMps
	}

	velocityMps := make([]float64, n)
	if startIdx < n-1 {
		deltaV := CumTrapz(accelMps2[startIdx:], timeS[startIdx:])
		for i := startIdx; i < n; i++ {
			velocityMps[i] = initialV + deltaV[i-startIdx]
		}
	}

	// Stop detection: clamp everything after the first zero crossing.
	// Without a known impact speed the velocity is relative (starts at zero
	// and goes negative by delta-V), so there is no stop to detect.
	endIdx := n - 1
	if initialV > 0 {
		for i := startIdx + 1; i < n; i++ {
			if velocityMps[i] <= 0 {
				endIdx = i
				for j := i; j < n; j++ {
					velocityMps[j] = 0.0
				}
				break
			}
		}
	}

	displacementM := make([]float64, n)
	if startIdx < endIdx {
		deltaS := CumTrapz(velocityMps[startIdx:endIdx+1], timeS[startIdx:endIdx+1])
		for i := startIdx; i <= endIdx; i++ {
			displacementM[i] = deltaS[i-startIdx]
		}
		for i := endIdx + 1; i < n; i++ {
			displacementM[i] = displacementM[endIdx]
		}
	}

	timeMs := make([]float64, n)
	velocityKph := make([]float64, n)
	for i := range timeS {
		timeMs[i] = timeS[i] * 1000.0
		velocityKph[i] = velocityMps[i] * 3.6
	}

	return &schema.CrashSignal{
		TimeMs:           timeMs,
		RawAccelG:        append([]float64(nil), rawG...),
		FilteredAccelG:   correctedG,
		VelocityKph:      velocityKph,
		DisplacementM:    displacementM,
		SampleRate:       fs,
		ImpactStartIndex: startIdx,
		BiasValue:        bias,
	}, nil
}
