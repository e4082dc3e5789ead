package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// WriteBatchResults outputs one summary row per test case, dispatching based
// on the output format configured. Results are sorted by test number.
func WriteBatchResults(results []schema.CaseResult, cfg *contract.Config, duration time.Duration) error {
	sort.Slice(results, func(i, j int) bool { return results[i].TestNo < results[j].TestNo })

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			models := make([]caseJSONModel, len(results))
			for i := range results {
				models[i] = caseModel(&results[i])
			}
			return writeJSON(w, models)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, results, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, results, cfg, duration)
		}, "Wrote table")
	}
}

var batchHeader = []string{
	"test_no", "channel", "peak_g", "delta_v_kph", "max_crush_mm",
	"olc_g", "severity", "error",
}

func writeBatchCSV(w io.Writer, results []schema.CaseResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	return writeCSVWithHeader(w, batchHeader, func(cw *csv.Writer) error {
		for i := range results {
			r := &results[i]
			record := []string{
				strconv.FormatInt(r.TestNo, 10),
				r.Channel.Name,
				fmtFloat(r.Metrics[schema.KeyPeakG]),
				fmtFloat(r.Metrics[schema.KeyDeltaV]),
				fmtFloat(r.Metrics[schema.KeyMaxCrush]),
				fmtFloat(caseOLC(r)),
				contract.GetPlainLabel(caseOLC(r)),
				r.Err,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writeBatchTable(w io.Writer, results []schema.CaseResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	maxChan := getMaxChannelWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Test", "Channel", "Peak G", "dV km/h", "Crush mm", "OLC g", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	failed := 0
	for i := range results {
		r := &results[i]
		if r.Err != "" {
			failed++
			data = append(data, []string{
				strconv.FormatInt(r.TestNo, 10),
				truncate(r.Channel.Name, maxChan),
				"-", "-", "-", "-",
				truncate(r.Err, 24),
			})
			continue
		}
		label := contract.GetPlainLabel(caseOLC(r))
		if cfg.UseColors {
			label = contract.GetColorLabel(caseOLC(r))
		}
		data = append(data, []string{
			strconv.FormatInt(r.TestNo, 10),
			truncate(r.Channel.Name, maxChan),
			fmtFloat(r.Metrics[schema.KeyPeakG]),
			fmtFloat(r.Metrics[schema.KeyDeltaV]),
			fmtFloat(r.Metrics[schema.KeyMaxCrush]),
			fmtFloat(caseOLC(r)),
			label,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Analyzed %d cases (%d failed) in %v with %d workers. Store backend: %s\n",
		len(results), failed, duration, cfg.Workers, cfg.StoreBackend)
	return nil
}
