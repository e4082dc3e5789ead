package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// WriteMetricRows outputs stored metric rows, dispatching based on the
// output format configured.
func WriteMetricRows(rows []schema.MetricRow, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRowsCSV(w, rows, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRowsTable(w, rows, cfg)
		}, "Wrote table")
	}
}

var rowsHeader = []string{
	"test_no", "channel", "sensor_location", "peak_g", "delta_v_kph",
	"max_crush_mm", "olc_g", "olc_approx_g", "total_energy_kj",
	"impact_velocity_kph", "updated_at", "error",
}

func writeRowsCSV(w io.Writer, rows []schema.MetricRow, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	return writeCSVWithHeader(w, rowsHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			record := []string{
				strconv.FormatInt(r.TestNo, 10),
				r.ChannelName,
				r.SensorLocation,
				fmtFloat(r.PeakG),
				fmtFloat(r.DeltaVKph),
				fmtFloat(r.MaxCrushMm),
				fmtFloat(r.OLCg),
				fmtFloat(r.OLCApproxG),
				fmtFloat(r.TotalEnergyKJ),
				fmtFloat(r.ImpactVelocityKph),
				r.UpdatedAt.Format(time.RFC3339),
				r.CaseError,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writeRowsTable(w io.Writer, rows []schema.MetricRow, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	maxChan := getMaxChannelWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Test", "Channel", "Peak G", "dV km/h", "Crush mm", "OLC g", "Updated"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range rows {
		olcG := r.OLCg
		if olcG == 0 {
			olcG = r.OLCApproxG
		}
		data = append(data, []string{
			strconv.FormatInt(r.TestNo, 10),
			truncate(r.ChannelName, maxChan),
			fmtFloat(r.PeakG),
			fmtFloat(r.DeltaVKph),
			fmtFloat(r.MaxCrushMm),
			fmtFloat(olcG),
			r.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Showing %d stored results\n", len(rows))
	return nil
}

// WriteRuns outputs batch-run records, dispatching based on the output
// format configured.
func WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsCSV(w, runs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs)
		}, "Wrote table")
	}
}

var runsHeader = []string{"run_id", "start_time", "duration_ms", "cases_analyzed", "config_params"}

func writeRunsCSV(w io.Writer, runs []schema.RunRecord) error {
	return writeCSVWithHeader(w, runsHeader, func(cw *csv.Writer) error {
		for _, r := range runs {
			durationMs := ""
			if r.DurationMs != nil {
				durationMs = strconv.FormatInt(*r.DurationMs, 10)
			}
			record := []string{
				strconv.FormatInt(r.RunID, 10),
				r.StartTime.Format(time.RFC3339),
				durationMs,
				strconv.Itoa(r.CasesAnalyzed),
				r.ConfigParams,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writeRunsTable(w io.Writer, runs []schema.RunRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Started", "Duration ms", "Cases"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		durationMs := "-"
		if r.DurationMs != nil {
			durationMs = strconv.FormatInt(*r.DurationMs, 10)
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format("2006-01-02 15:04:05"),
			durationMs,
			strconv.Itoa(r.CasesAnalyzed),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
