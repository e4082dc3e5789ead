package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/crashlab/crashpulse/core"
	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/internal/outwriter"
	"github.com/crashlab/crashpulse/internal/recio"
)

// batchCmd analyzes every case in a selection list concurrently.
var batchCmd = &cobra.Command{
	Use:   "batch <list.csv>",
	Short: "Analyze a batch of crash-test recordings.",
	Long: `Run the full analysis over every test case in a CSV selection list.

The list names one recording per row with optional per-case overrides:

  test_no,channel_name,recording_path,mass_kg,impact_kph
  9203,,runs/test_09203.json,1850,56.1
  9204,11SILLLERE00ACXD,runs/test_09204.json,,

Cases run concurrently on the configured worker pool; each result is
persisted to the result store and summarized in one output row. A failing
case is reported and skipped, never aborting the batch.

Examples:
  # Analyze a fleet with 8 workers and store results in SQLite
  crashpulse batch fleet.csv --workers 8

  # Export the batch summary as CSV without persistence
  crashpulse batch fleet.csv --store-backend none --output csv --output-file summary.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()

		cases, err := recio.ReadBatchList(args[0])
		if err != nil {
			contract.LogFatal("Cannot read batch list", err)
		}

		results := core.RunBatch(cases, cfg, opener, store)

		if err := outwriter.WriteBatchResults(results, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}
