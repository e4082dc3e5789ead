package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFindBestBiasConstantOffset verifies that a flat pre-impact segment
// yields its own mean as the bias.
func TestFindBestBiasConstantOffset(t *testing.T) {
	const fs = 10000.0
	data := make([]float64, 5000)
	for i := range data {
		data[i] = 0.42
	}
	// A big pulse outside the search region must not matter.
	for i := 3000; i < 3500; i++ {
		data[i] = -40.0
	}

	bias := FindBestBias(data, fs, 10.0, 0.2)
	assert.InDelta(t, 0.42, bias, 1e-9)
}

// TestFindBestBiasPicksQuietestWindow verifies that the estimate comes from
// the minimum-variance window, not from a noisy or active segment.
func TestFindBestBiasPicksQuietestWindow(t *testing.T) {
	const fs = 10000.0
	data := make([]float64, 5000)
	for i := range data {
		// Quiet segment at 0.3 g with tiny ripple.
		data[i] = 0.3 + 0.001*math.Sin(float64(i)/3.0)
	}
	// Ringing early in the search region, centered on a misleading level.
	for i := 0; i < 300; i++ {
		data[i] = 1.5 + 0.8*math.Sin(float64(i))
	}

	bias := FindBestBias(data, fs, 10.0, 0.2)
	assert.InDelta(t, 0.3, bias, 0.01)
}

// TestFindBestBiasImplausibleClamped verifies that offsets beyond the
// plausible zero-error range are discarded.
func TestFindBestBiasImplausibleClamped(t *testing.T) {
	data := make([]float64, 5000)
	for i := range data {
		data[i] = 5.0
	}

	bias := FindBestBias(data, 10000.0, 10.0, 0.2)
	assert.Equal(t, 0.0, bias)
}

// TestFindBestBiasShortRegionFallsBackToMedian verifies the degenerate-input
// path when the search region is shorter than one window.
func TestFindBestBiasShortRegionFallsBackToMedian(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{name: "odd length", data: []float64{0.9, 0.1, 0.5}, expected: 0.5},
		{name: "even length", data: []float64{0.1, 0.2, 0.4, 0.9}, expected: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// fs high enough that one 10 ms window exceeds the data length.
			bias := FindBestBias(tt.data, 10000.0, 10.0, 0.9)
			assert.InDelta(t, tt.expected, bias, 1e-9)
		})
	}
}
