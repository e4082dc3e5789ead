// Package dsp implements the signal reconstruction stage: CFC low-pass
// filtering, bias removal, impact-onset detection, and double integration of
// acceleration into velocity and displacement.
package dsp

import "math"

// CutoffForCFC maps an SAE J211 Channel Frequency Class to a low-pass cutoff
// in Hz. Classes 60 and 180 have standardized cutoffs; other classes follow
// the class*1.667 convention.
func CutoffForCFC(cfc int) float64 {
	switch cfc {
	case 60:
		return 100.0
	case 180:
		return 300.0
	default:
		return float64(cfc) * 1.667
	}
}

// filterIIR is a 2nd order IIR filter in Direct-Form II (transposed).
// Coefficients are normalised so A[0] == 1.
type filterIIR struct {
	B [3]float64
	A [3]float64
	w [2]float64
}

// newButterLowPass designs a 2nd order Butterworth low-pass section for the
// given cutoff and sample rate via the bilinear transform. The normalised
// cutoff is clamped just below Nyquist so over-specified classes degrade to
// a pass-through-ish filter instead of blowing up.
func newButterLowPass(cutoffHz, fs float64) *filterIIR {
	nyq := 0.5 * fs
	wn := cutoffHz / nyq
	if wn > 0.99 {
		wn = 0.99
	}
	if wn < 0 {
		wn = 0
	}

	// Prewarped analog frequency.
	warped := math.Tan(math.Pi * wn / 2.0)
	k1 := math.Sqrt2 * warped
	k2 := warped * warped
	a0 := 1.0 + k1 + k2

	return &filterIIR{
		B: [3]float64{k2 / a0, 2.0 * k2 / a0, k2 / a0},
		A: [3]float64{1.0, 2.0 * (k2 - 1.0) / a0, (1.0 - k1 + k2) / a0},
	}
}

// step applies the filter to one sample, updating the internal state.
func (f *filterIIR) step(sample float64) float64 {
	y := f.w[0] + f.B[0]*sample
	f.w[0] = f.w[1] - f.A[1]*y + f.B[1]*sample
	f.w[1] = f.B[2]*sample - f.A[2]*y
	return y
}

// padLen is the number of mirrored samples on each end used by the
// zero-phase pass, 3x the filter order.
const padLen = 6

// zeroPhase filters the signal forward and backward, cancelling the phase
// shift of the IIR section. The ends are extended with odd reflection and
// the initial state is matched to the first padded sample (Gustafsson,
// "Determining the initial states in forward-backward filtering", IEEE
// Trans. Signal Processing 44(4), 1996) to avoid startup transients.
// Sequences too short to pad are returned unchanged.
func (f *filterIIR) zeroPhase(signal []float64) []float64 {
	n := len(signal)
	if n <= padLen {
		out := make([]float64, n)
		copy(out, signal)
		return out
	}

	// Steady-state step response of the section, for initial conditions.
	kdc := (f.B[0] + f.B[1] + f.B[2]) / (1 + f.A[1] + f.A[2])
	var si [2]float64
	si[1] = f.B[2] - kdc*f.A[2]
	si[0] = si[1] + f.B[1] - kdc*f.A[1]

	v := make([]float64, 0, n+2*padLen)

	// Forward pass over the odd-extended signal.
	f.w = [2]float64{
		si[0] * (signal[0]*2 - signal[padLen]),
		si[1] * (signal[0]*2 - signal[padLen]),
	}
	for i := padLen; i >= 1; i-- {
		v = append(v, f.step(signal[0]*2-signal[i]))
	}
	for i := range signal {
		v = append(v, f.step(signal[i]))
	}
	last := signal[n-1]
	for i := 1; i <= padLen; i++ {
		v = append(v, f.step(last*2-signal[n-1-i]))
	}

	// Backward pass.
	f.w = [2]float64{
		si[0] * v[len(v)-1],
		si[1] * v[len(v)-1],
	}
	for i := len(v) - 1; i >= 0; i-- {
		v[i] = f.step(v[i])
	}

	return v[padLen : n+padLen]
}

// ApplyCFCFilter applies a zero-phase 2nd order Butterworth low-pass at the
// cutoff of the given frequency class. The output has the same length as the
// input and no time shift relative to it; downstream onset and peak timing
// depend on that alignment.
func ApplyCFCFilter(data []float64, fs float64, cfc int) []float64 {
	f := newButterLowPass(CutoffForCFC(cfc), fs)
	return f.zeroPhase(data)
}
