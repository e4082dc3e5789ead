package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// metricDisplayOrder fixes the row order of the single-case table. Metrics
// outside this list (from custom strategies) print after it, sorted by key.
var metricDisplayOrder = []string{
	schema.KeyPeakG,
	schema.KeyTimeAtPeak,
	schema.KeyDeltaV,
	schema.KeyMaxCrush,
	schema.KeyTimeAtMaxCrush,
	schema.KeySpecificEnergy,
	schema.KeyTotalEnergy,
	schema.KeyOLC,
	schema.KeyOLCT1,
	schema.KeyOLCT2,
	schema.KeyOLCApprox,
}

// orderedMetricKeys returns the metric keys of a result in display order.
func orderedMetricKeys(metrics map[string]float64) []string {
	keys := make([]string, 0, len(metrics))
	seen := make(map[string]bool, len(metrics))
	for _, k := range metricDisplayOrder {
		if _, ok := metrics[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extra []string
	for k := range metrics {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// WriteCaseResult outputs a single-case analysis, dispatching based on the
// output format configured.
func WriteCaseResult(result *schema.CaseResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCaseJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCaseCSV(w, result, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCaseTable(w, result, cfg, duration)
		}, "Wrote table")
	}
}

// caseJSONModel is the JSON render model for one case.
type caseJSONModel struct {
	TestNo            int64              `json:"test_no,omitempty"`
	Channel           string             `json:"channel"`
	SensorLocation    string             `json:"sensor_location,omitempty"`
	ImpactVelocityKph float64            `json:"impact_velocity_kph"`
	ImpactAngleDeg    float64            `json:"impact_angle_deg"`
	BiasG             float64            `json:"bias_g"`
	ImpactStartMs     float64            `json:"impact_start_ms"`
	SeverityLabel     string             `json:"severity_label"`
	Metrics           map[string]float64 `json:"metrics"`
	Errors            map[string]string  `json:"errors,omitempty"`
}

func caseModel(result *schema.CaseResult) caseJSONModel {
	m := caseJSONModel{
		TestNo:            result.TestNo,
		Channel:           result.Channel.Name,
		SensorLocation:    result.Channel.LocationLabel,
		ImpactVelocityKph: result.ImpactVelocityKph,
		ImpactAngleDeg:    result.ImpactAngleDeg,
		SeverityLabel:     contract.GetPlainLabel(caseOLC(result)),
		Metrics:           result.Metrics,
		Errors:            result.Errors,
	}
	if result.Signal != nil {
		m.BiasG = result.Signal.BiasValue
		if result.Signal.ImpactStartIndex < len(result.Signal.TimeMs) {
			m.ImpactStartMs = result.Signal.TimeMs[result.Signal.ImpactStartIndex]
		}
	}
	return m
}

// caseOLC returns whichever occupant-load number the run produced.
func caseOLC(result *schema.CaseResult) float64 {
	if v, ok := result.Metrics[schema.KeyOLC]; ok && v > 0 {
		return v
	}
	return result.Metrics[schema.KeyOLCApprox]
}

func writeCaseJSON(w io.Writer, result *schema.CaseResult) error {
	return writeJSON(w, caseModel(result))
}

func writeCaseCSV(w io.Writer, result *schema.CaseResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"Channel", result.Channel.Name}); err != nil {
			return err
		}
		for _, k := range orderedMetricKeys(result.Metrics) {
			if err := cw.Write([]string{k, fmtFloat(result.Metrics[k])}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCaseTable(w io.Writer, result *schema.CaseResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	fmt.Fprintf(w, "Channel: %s\n", result.Channel.Name)
	if result.Channel.LocationLabel != "" {
		fmt.Fprintf(w, "Location: %s\n", result.Channel.LocationLabel)
	}
	if result.ImpactVelocityKph > 0 {
		fmt.Fprintf(w, "Impact velocity: %s km/h\n", fmtFloat(result.ImpactVelocityKph))
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, k := range orderedMetricKeys(result.Metrics) {
		data = append(data, []string{k, fmtFloat(result.Metrics[k])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	label := contract.GetPlainLabel(caseOLC(result))
	if cfg.UseColors {
		label = contract.GetColorLabel(caseOLC(result))
	}
	fmt.Fprintf(w, "Severity: %s\n", label)

	for key, msg := range result.Errors {
		fmt.Fprintf(w, "%s: %s\n", key, msg)
	}
	fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return nil
}
