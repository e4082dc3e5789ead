package metric

import (
	"errors"
	"math"

	"github.com/crashlab/crashpulse/schema"
)

// MaxDisplacement reports the peak dynamic crush and its timing.
type MaxDisplacement struct{}

// Name implements Strategy.
func (MaxDisplacement) Name() string { return "MaxDisplacement" }

// Calculate implements Strategy.
func (MaxDisplacement) Calculate(sig *schema.CrashSignal) (map[string]float64, error) {
	if sig.Len() == 0 {
		return nil, errors.New("empty signal")
	}

	maxDisp := 0.0
	timeAtMax := sig.TimeMs[0]
	for i, d := range sig.DisplacementM {
		if a := math.Abs(d); a > maxDisp {
			maxDisp = a
			timeAtMax = sig.TimeMs[i]
		}
	}

	return map[string]float64{
		schema.KeyMaxCrush:       round1(maxDisp * 1000.0),
		schema.KeyTimeAtMaxCrush: round1(timeAtMax),
	}, nil
}

// EnergyAnalysis integrates |acceleration| over displacement to obtain the
// specific absorbed energy (J/kg), and scales by vehicle mass when one is
// known to report total absorbed energy (kJ).
type EnergyAnalysis struct {
	// VehicleMassKg scales specific energy into total energy; 0 leaves the
	// total at zero.
	VehicleMassKg float64
}

// Name implements Strategy.
func (EnergyAnalysis) Name() string { return "EnergyAnalysis" }

// Calculate implements Strategy.
func (e EnergyAnalysis) Calculate(sig *schema.CrashSignal) (map[string]float64, error) {
	if sig.Len() < 2 {
		return nil, errors.New("signal too short for energy integration")
	}

	// Trapezoidal integral of |a| dx along the displacement curve.
	specific := 0.0
	for i := 1; i < sig.Len(); i++ {
		a0 := math.Abs(sig.FilteredAccelG[i-1]) * schema.Gravity
		a1 := math.Abs(sig.FilteredAccelG[i]) * schema.Gravity
		dx := sig.DisplacementM[i] - sig.DisplacementM[i-1]
		specific += 0.5 * (a0 + a1) * dx
	}

	totalKJ := 0.0
	if e.VehicleMassKg > 0 {
		totalKJ = specific * e.VehicleMassKg / 1000.0
	}

	return map[string]float64{
		schema.KeySpecificEnergy: round2(specific),
		schema.KeyTotalEnergy:    round2(totalKJ),
	}, nil
}
