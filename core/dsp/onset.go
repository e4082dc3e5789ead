package dsp

import "github.com/crashlab/crashpulse/schema"

// onsetFallbackMs is the fixed lookback applied before the anchor when the
// backtrack never finds a sample above the release threshold (slow ramps or
// a mis-estimated bias leave the whole pre-anchor segment below it).
const onsetFallbackMs = 20.0

// FindImpactStart returns the sample index where the crash pulse begins.
//
// The search anchors on the first sample below anchorG (unambiguously inside
// the pulse), then walks backward to the most recent sample still above
// releaseG; the sample after it is the onset. With no release point in the
// pre-anchor segment the onset falls back to anchor minus 20 ms. With no
// anchor crossing at all (very weak pulse) the first release crossing is
// used, or index 0.
func FindImpactStart(accelMps2 []float64, fs, anchorG, releaseG float64) int {
	anchorVal := anchorG * schema.Gravity
	releaseVal := releaseG * schema.Gravity

	firstAnchor := -1
	for i, a := range accelMps2 {
		if a < anchorVal {
			firstAnchor = i
			break
		}
	}

	if firstAnchor < 0 {
		for i, a := range accelMps2 {
			if a < releaseVal {
				return i
			}
		}
		return 0
	}

	for i := firstAnchor - 1; i >= 0; i-- {
		if accelMps2[i] > releaseVal {
			return i + 1
		}
	}

	fallbackSamples := int(onsetFallbackMs / 1000.0 * fs)
	return max(0, firstAnchor-fallbackSamples)
}
