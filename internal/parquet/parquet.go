// Package parquet exports stored crash metrics and run records to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/crashlab/crashpulse/schema"
)

// Run maps a batch-run record to the crashpulse_runs Parquet schema.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int64     `parquet:"run_duration_ms,optional,snappy"`
	CasesAnalyzed int32      `parquet:"cases_analyzed,snappy"`
	ConfigParams  *string    `parquet:"config_params,optional,snappy"`
}

// Metric maps one metric row to the crashpulse_metrics Parquet schema.
type Metric struct {
	TestNo            int64     `parquet:"test_no,snappy"`
	ChannelName       string    `parquet:"channel_name,snappy"`
	SensorLocation    *string   `parquet:"sensor_location,optional,snappy"`
	PeakG             float64   `parquet:"peak_g,snappy"`
	TimeAtPeakMs      float64   `parquet:"time_at_peak_ms,snappy"`
	DeltaVKph         float64   `parquet:"delta_v_kph,snappy"`
	MaxCrushMm        float64   `parquet:"max_crush_mm,snappy"`
	TimeAtMaxCrushMs  float64   `parquet:"time_at_max_crush_ms,snappy"`
	OLCg              float64   `parquet:"olc_g,snappy"`
	OLCApproxG        float64   `parquet:"olc_approx_g,snappy"`
	SpecificEnergyJ   float64   `parquet:"specific_energy_j,snappy"`
	TotalEnergyKJ     float64   `parquet:"total_energy_kj,snappy"`
	ImpactVelocityKph float64   `parquet:"impact_velocity_kph,snappy"`
	BiasG             float64   `parquet:"bias_g,snappy"`
	ImpactStartMs     float64   `parquet:"impact_start_ms,snappy"`
	CaseError         *string   `parquet:"case_error,optional,snappy"`
	UpdatedAt         time.Time `parquet:"updated_at,snappy"`
}

// ConvertRunRecords converts store run records to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	runs := make([]Run, len(records))
	for i, rec := range records {
		runs[i] = Run{
			RunID:         rec.RunID,
			StartTime:     rec.StartTime,
			EndTime:       rec.EndTime,
			RunDurationMs: rec.DurationMs,
			CasesAnalyzed: int32(rec.CasesAnalyzed),
		}
		if rec.ConfigParams != "" {
			params := rec.ConfigParams
			runs[i].ConfigParams = &params
		}
	}
	return runs
}

// ConvertMetricRows converts store metric rows to their Parquet form.
func ConvertMetricRows(rows []schema.MetricRow) []Metric {
	metrics := make([]Metric, len(rows))
	for i, r := range rows {
		metrics[i] = Metric{
			TestNo:            r.TestNo,
			ChannelName:       r.ChannelName,
			PeakG:             r.PeakG,
			TimeAtPeakMs:      r.TimeAtPeakMs,
			DeltaVKph:         r.DeltaVKph,
			MaxCrushMm:        r.MaxCrushMm,
			TimeAtMaxCrushMs:  r.TimeAtMaxCrushMs,
			OLCg:              r.OLCg,
			OLCApproxG:        r.OLCApproxG,
			SpecificEnergyJ:   r.SpecificEnergyJ,
			TotalEnergyKJ:     r.TotalEnergyKJ,
			ImpactVelocityKph: r.ImpactVelocityKph,
			BiasG:             r.BiasG,
			ImpactStartMs:     r.ImpactStartMs,
			UpdatedAt:         r.UpdatedAt,
		}
		if r.SensorLocation != "" {
			loc := r.SensorLocation
			metrics[i].SensorLocation = &loc
		}
		if r.CaseError != "" {
			caseErr := r.CaseError
			metrics[i].CaseError = &caseErr
		}
	}
	return metrics
}

// WriteRunsParquet writes run records to a Parquet file. The schema is
// inferred from the Run struct tags.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteMetricsParquet writes metric rows to a Parquet file.
func WriteMetricsParquet(data []Metric, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[Metric](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
