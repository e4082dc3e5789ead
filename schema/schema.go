// Package schema has configs, models and shared constants for all parts of crashpulse.
package schema

import "time"

// CrashSignal is the canonical reconstructed record for one analysis run.
// All slices share the same length and index alignment; velocity and
// displacement are zero for every index before ImpactStartIndex. The struct
// is created once by the integrator and never mutated afterwards.
type CrashSignal struct {
	TimeMs         []float64 // Time axis in milliseconds
	RawAccelG      []float64 // Acceleration as read from the channel (g)
	FilteredAccelG []float64 // CFC-filtered, bias-corrected acceleration (g)
	VelocityKph    []float64 // Reconstructed vehicle velocity (km/h)
	DisplacementM  []float64 // Reconstructed displacement / dynamic crush (m)

	SampleRate       float64 // Samples per second
	ImpactStartIndex int     // Index of detected impact onset
	BiasValue        float64 // Removed sensor offset (g)
}

// Dt returns the sample period in seconds.
func (s *CrashSignal) Dt() float64 {
	return 1.0 / s.SampleRate
}

// Len returns the number of samples in the signal.
func (s *CrashSignal) Len() int {
	return len(s.TimeMs)
}

// OLCResult holds the outcome of the two-point OLC solve.
// Invariant: T2S >= T1S and OLCg >= 0; a failed solve is the zero value of
// the scalar fields with RelDisplacementM still populated when available.
type OLCResult struct {
	OLCg  float64 // Occupant Load Criterion (g)
	T1S   float64 // Start of restraint loading (s)
	T2S   float64 // Occupant/vehicle velocity re-convergence (s)
	V1Mps float64 // Vehicle velocity at t1 (m/s)
	V2Mps float64 // Vehicle velocity at t2 (m/s)

	// RelDisplacementM is the free-flight occupant displacement relative to
	// the vehicle, per sample. Excluded from persistence.
	RelDisplacementM []float64
}

// ChannelInfo describes the channel chosen for a test case.
type ChannelInfo struct {
	Name          string // Channel name as recorded
	LocationLabel string // Human-readable mounting location
	Score         int    // Selection score (0 when requested by exact name)
}

// CaseResult is the full outcome of one test-case analysis: the chosen
// channel, the reconstructed signal, and the merged metric mapping. Metrics
// maps metric keys to values; Errors maps Error_<Strategy> keys to messages
// for strategies that failed without aborting the run.
type CaseResult struct {
	TestNo  int64
	Channel ChannelInfo
	Signal  *CrashSignal

	ImpactVelocityKph float64 // Metadata-derived impact speed (0 = estimated)
	ImpactAngleDeg    float64
	VehicleMassKg     float64

	Metrics map[string]float64
	Errors  map[string]string

	Err string // Non-empty when the whole case failed (channel/time errors)
}

// MetricRow is the persisted form of a CaseResult, one row per test number.
type MetricRow struct {
	TestNo            int64
	ChannelName       string
	SensorLocation    string
	PeakG             float64
	TimeAtPeakMs      float64
	DeltaVKph         float64
	MaxCrushMm        float64
	TimeAtMaxCrushMs  float64
	OLCg              float64
	OLCApproxG        float64
	SpecificEnergyJ   float64
	TotalEnergyKJ     float64
	ImpactVelocityKph float64
	BiasG             float64
	ImpactStartMs     float64
	CaseError         string
	UpdatedAt         time.Time
}

// RunRecord tracks one batch analysis run.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	DurationMs    *int64
	CasesAnalyzed int
	ConfigParams  string // JSON-encoded run parameters
}

// SensorCode is the decoded form of a 16-character NHTSA channel code.
type SensorCode struct {
	Original   string `json:"original"`
	Valid      bool   `json:"valid"`
	Object     string `json:"object,omitempty"`
	Location   string `json:"location,omitempty"`
	SensorType string `json:"sensor_type,omitempty"`
	Axis       string `json:"axis,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchCase is one row of the batch selection list.
type BatchCase struct {
	TestNo        int64
	ChannelName   string  // Empty means auto-select
	RecordingPath string  // Path to the channel-dump container
	VehicleMassKg float64 // 0 when unknown
	ImpactKph     float64 // 0 when unknown; metadata may still provide it
}

// RowFromCase flattens a CaseResult into its persisted MetricRow.
func RowFromCase(r *CaseResult) MetricRow {
	row := MetricRow{
		TestNo:            r.TestNo,
		ChannelName:       r.Channel.Name,
		SensorLocation:    r.Channel.LocationLabel,
		ImpactVelocityKph: r.ImpactVelocityKph,
		CaseError:         r.Err,
		UpdatedAt:         time.Now().UTC(),
	}
	if r.Signal != nil {
		row.BiasG = r.Signal.BiasValue
		if r.Signal.ImpactStartIndex < len(r.Signal.TimeMs) {
			row.ImpactStartMs = r.Signal.TimeMs[r.Signal.ImpactStartIndex]
		}
	}
	if r.Metrics != nil {
		row.PeakG = r.Metrics[KeyPeakG]
		row.TimeAtPeakMs = r.Metrics[KeyTimeAtPeak]
		row.DeltaVKph = r.Metrics[KeyDeltaV]
		row.MaxCrushMm = r.Metrics[KeyMaxCrush]
		row.TimeAtMaxCrushMs = r.Metrics[KeyTimeAtMaxCrush]
		row.OLCg = r.Metrics[KeyOLC]
		row.OLCApproxG = r.Metrics[KeyOLCApprox]
		row.SpecificEnergyJ = r.Metrics[KeySpecificEnergy]
		row.TotalEnergyKJ = r.Metrics[KeyTotalEnergy]
	}
	return row
}
