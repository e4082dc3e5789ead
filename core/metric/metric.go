// Package metric holds the independent metric calculators that consume a
// reconstructed CrashSignal. Each strategy is a self-contained unit; the
// pipeline composes them and isolates their failures from one another.
package metric

import "github.com/crashlab/crashpulse/schema"

// Strategy computes a set of named scalar results from one CrashSignal.
// Implementations must treat the signal as read-only. A returned error marks
// this strategy's results as unavailable without affecting the others.
type Strategy interface {
	// Name identifies the strategy in error keys and logs.
	Name() string

	// Calculate returns the strategy's metric mapping for the signal.
	Calculate(sig *schema.CrashSignal) (map[string]float64, error)
}
