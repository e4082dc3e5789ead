package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crashlab/crashpulse/schema"
)

// seg is a run of n samples at a constant level in g.
type seg struct {
	n int
	g float64
}

// accel builds a trace in m/s^2 from per-segment g levels.
func accel(segments ...seg) []float64 {
	var out []float64
	for _, s := range segments {
		for i := 0; i < s.n; i++ {
			out = append(out, s.g*schema.Gravity)
		}
	}
	return out
}

// TestFindImpactStartAnchorBacktrack verifies the main path: anchor on the
// hard deceleration, then backtrack through the ramp to the last quiet
// sample.
func TestFindImpactStartAnchorBacktrack(t *testing.T) {
	// 100 quiet samples, a 20-sample ramp at -2 g (below release, above
	// anchor), then the pulse body at -10 g.
	trace := accel(seg{100, 0.0}, seg{20, -2.0}, seg{200, -10.0})

	idx := FindImpactStart(trace, 10000.0, -5.0, -0.5)
	assert.Equal(t, 100, idx)
}

// TestFindImpactStartNoAnchor verifies the weak-pulse path: with no sample
// below the anchor threshold, the first release crossing is the onset.
func TestFindImpactStartNoAnchor(t *testing.T) {
	trace := accel(seg{50, 0.0}, seg{100, -2.0})

	idx := FindImpactStart(trace, 10000.0, -5.0, -0.5)
	assert.Equal(t, 50, idx)
}

// TestFindImpactStartQuietTrace verifies that a trace with no activity at
// all resolves to index 0.
func TestFindImpactStartQuietTrace(t *testing.T) {
	trace := accel(seg{500, 0.0})

	idx := FindImpactStart(trace, 10000.0, -5.0, -0.5)
	assert.Equal(t, 0, idx)
}

// TestFindImpactStartFallback verifies the 20 ms lookback when the whole
// pre-anchor segment already sits below the release threshold.
func TestFindImpactStartFallback(t *testing.T) {
	// -1 g everywhere before the anchor: below release, so the backtrack
	// never finds a quiet sample. At 10 kHz the fallback is 200 samples.
	trace := accel(seg{300, -1.0}, seg{100, -10.0})

	idx := FindImpactStart(trace, 10000.0, -5.0, -0.5)
	assert.Equal(t, 100, idx)
}

// TestFindImpactStartFallbackClamped verifies the fallback never goes
// negative when the anchor sits near the start of the trace.
func TestFindImpactStartFallbackClamped(t *testing.T) {
	trace := accel(seg{50, -1.0}, seg{100, -10.0})

	idx := FindImpactStart(trace, 10000.0, -5.0, -0.5)
	assert.Equal(t, 0, idx)
}
