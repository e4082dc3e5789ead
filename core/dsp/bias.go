package dsp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// maxPlausibleBiasG is the clamp on the estimated offset. A static zero
// error beyond 3 g is not plausible for a correctly zeroed accelerometer;
// anything larger is treated as a spurious estimate.
const maxPlausibleBiasG = 3.0

// FindBestBias estimates the DC offset of a filtered trace by sliding a
// fixed-duration window across the early part of the recording and taking
// the mean of the quietest (minimum variance) window. The search is limited
// to limitRatio of the trace (at least 50 ms) so the crash pulse itself
// cannot contaminate the estimate.
func FindBestBias(data []float64, fs, windowMs, limitRatio float64) float64 {
	searchLimit := int(float64(len(data)) * limitRatio)

	minSamples := int(0.05 * fs)
	if searchLimit < minSamples {
		searchLimit = min(len(data), minSamples)
	}
	target := data[:searchLimit]

	winLen := int(windowMs / 1000.0 * fs)
	if winLen < 3 {
		winLen = 3
	}
	if len(target) < winLen {
		return median(target)
	}

	minVar := math.Inf(1)
	bestMean := 0.0
	stride := max(1, winLen/4)

	for i := 0; i+winLen < len(target); i += stride {
		segment := target[i : i+winLen]
		if v := stat.Variance(segment, nil); v < minVar {
			minVar = v
			bestMean = stat.Mean(segment, nil)
		}
	}

	if math.Abs(bestMean) > maxPlausibleBiasG {
		return 0.0
	}
	return bestMean
}

// median returns the middle value of the data, used as a degenerate-input
// fallback when the search region is shorter than one window.
func median(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}
