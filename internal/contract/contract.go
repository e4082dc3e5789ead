// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"errors"

	"github.com/crashlab/crashpulse/schema"
)

// Sentinel errors for per-case failures. Channel- and time-level failures
// abort the single test case; callers skip the case and continue the batch.
var (
	// ErrDataTooShort means the selected channel has too few samples in the
	// analysis window to reconstruct anything meaningful.
	ErrDataTooShort = errors.New("not enough data points in analysis window")

	// ErrChannelNotFound means no channel matched the selection criteria or
	// the requested channel name.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrTimeVector means the channel's timing metadata is malformed or
	// missing, so no time axis can be constructed.
	ErrTimeVector = errors.New("time vector construction failed")
)

// Channel is a single uniformly-sampled waveform with string-keyed metadata.
// Implementations are read-only views over an already-parsed container; the
// core never parses vendor binary formats itself.
type Channel interface {
	// Name returns the channel name as recorded.
	Name() string

	// Samples returns the raw sample values. Callers must not mutate the
	// returned slice.
	Samples() []float64

	// Property returns the metadata value for key, with ok=false when the
	// key is absent. Key matching is exact.
	Property(key string) (string, bool)

	// PropertyKeys returns all metadata keys present on the channel.
	PropertyKeys() []string

	// Increment returns the sample period in seconds, or 0 when unknown.
	Increment() float64

	// StartOffset returns the time of the first sample in seconds.
	StartOffset() float64
}

// Recording exposes the channels of one crash-test recording plus any
// recording-level metadata (test speed, angle and the like).
type Recording interface {
	// Channels returns all channels in the recording, in container order.
	Channels() []Channel

	// Property returns recording-level metadata for key.
	Property(key string) (string, bool)
}

// RecordingOpener loads a recording container from disk. The single
// production implementation reads the JSON channel-dump format; tests
// substitute in-memory recordings.
type RecordingOpener interface {
	Open(path string) (Recording, error)
}

// ResultStore persists metric rows and batch-run records keyed by test
// number. Implementations must tolerate repeated upserts for the same test.
type ResultStore interface {
	// BeginRun records the start of a batch run and returns its ID.
	BeginRun(params map[string]any) (int64, error)

	// EndRun finalizes a batch run with the number of cases analyzed.
	EndRun(runID int64, cases int) error

	// UpsertMetrics writes a batch of metric rows, replacing rows with the
	// same test number. The store takes ownership of the slice.
	UpsertMetrics(rows []schema.MetricRow) error

	// GetMetrics returns the stored row for a test number.
	GetMetrics(testNo int64) (*schema.MetricRow, error)

	// ListMetrics returns up to limit stored rows, most recent first.
	ListMetrics(limit int) ([]schema.MetricRow, error)

	// ListRuns returns up to limit run records, most recent first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// Clear removes all stored rows and run records.
	Clear() error

	// Close releases the underlying connection.
	Close() error
}
