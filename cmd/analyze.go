package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/crashlab/crashpulse/core"
	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/internal/outwriter"
	"github.com/crashlab/crashpulse/internal/recio"
	"github.com/crashlab/crashpulse/schema"
)

// analyzeCmd analyzes a single crash-test recording.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <recording>",
	Short: "Analyze one crash-test recording.",
	Long: `Reconstruct the crash pulse from one recording and print its metrics.

Selects the best vehicle-structure accelerometer (or the channel named with
--channel), filters the trace, removes sensor bias, detects the impact onset,
and integrates acceleration into velocity and dynamic crush. The metric
strategies then report peak deceleration, delta-V, maximum crush, absorbed
energy, and the occupant load criterion.

Examples:
  # Auto-select the channel and print a table
  crashpulse analyze test_09203.json

  # Analyze a specific channel with a known impact speed
  crashpulse analyze test_09203.json --channel "11XMEM00RE00ACXD" --impact-kph 56

  # Use the mean-deceleration OLC proxy and export as JSON
  crashpulse analyze test_09203.json --olc-mode approx --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()

		rec, err := opener.Open(args[0])
		if err != nil {
			contract.LogFatal("Cannot open recording", err)
		}

		result, err := core.AnalyzeCase(rec, cfg)
		if err != nil {
			contract.LogFatal("Cannot analyze recording", err)
		}
		if r, ok := rec.(*recio.Recording); ok {
			result.TestNo = r.TestNo()
		}

		if store != nil && result.TestNo > 0 {
			row := schema.RowFromCase(result)
			if err := store.UpsertMetrics([]schema.MetricRow{row}); err != nil {
				contract.LogWarn("Failed to persist result", err)
			}
		}

		if err := outwriter.WriteCaseResult(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}
