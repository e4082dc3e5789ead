package metric

import (
	"errors"
	"math"

	"github.com/crashlab/crashpulse/schema"
)

// kinematicsWindowMs bounds the search window for peaks. Structural response
// beyond 300 ms is rebound and ringing, not the crash pulse.
const kinematicsWindowMs = 300.0

// BasicKinematics reports peak deceleration, its timing, and delta-V within
// the 0-300 ms window. Delta-V is measured against the velocity at impact
// onset, so it reads the same whether or not the integration was seeded
// with a known impact speed.
type BasicKinematics struct{}

// Name implements Strategy.
func (BasicKinematics) Name() string { return "BasicKinematics" }

// Calculate implements Strategy.
func (BasicKinematics) Calculate(sig *schema.CrashSignal) (map[string]float64, error) {
	if len(sig.TimeMs) == 0 || sig.ImpactStartIndex >= len(sig.VelocityKph) {
		return nil, errors.New("no data in 0-300ms range")
	}
	vRef := sig.VelocityKph[sig.ImpactStartIndex]
	peakG := 0.0
	timeAtPeak := 0.0
	deltaV := 0.0
	found := false

	for i, t := range sig.TimeMs {
		if t < 0 || t > kinematicsWindowMs {
			continue
		}
		found = true
		if a := math.Abs(sig.FilteredAccelG[i]); a > peakG {
			peakG = a
			timeAtPeak = t
		}
		if i >= sig.ImpactStartIndex {
			if v := math.Abs(sig.VelocityKph[i] - vRef); v > deltaV {
				deltaV = v
			}
		}
	}
	if !found {
		return nil, errors.New("no data in 0-300ms range")
	}

	return map[string]float64{
		schema.KeyPeakG:      round2(peakG),
		schema.KeyTimeAtPeak: round1(timeAtPeak),
		schema.KeyDeltaV:     round2(deltaV),
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
