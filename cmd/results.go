package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/internal/outwriter"
	"github.com/crashlab/crashpulse/internal/resultstore"
	"github.com/crashlab/crashpulse/schema"
)

// resultsCmd is the parent command for result store operations.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect and manage stored analysis results.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// resultsListCmd lists stored metric rows.
var resultsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored metric rows, most recent first.",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		rows, err := store.ListMetrics(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list results", err)
		}
		if err := outwriter.WriteMetricRows(rows, cfg); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// resultsGetCmd prints the stored row for one test number.
var resultsGetCmd = &cobra.Command{
	Use:     "get <test-no>",
	Short:   "Get the stored metric row for a test number.",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, args []string) {
		testNo, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			contract.LogFatal("Invalid test number", err)
		}
		row, err := store.GetMetrics(testNo)
		if err != nil {
			contract.LogFatal("Cannot get result", err)
		}
		if row == nil {
			fmt.Printf("No stored result for test %d\n", testNo)
			return
		}
		if err := outwriter.WriteMetricRows([]schema.MetricRow{*row}, cfg); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// resultsRunsCmd lists batch-run records.
var resultsRunsCmd = &cobra.Command{
	Use:     "runs",
	Short:   "List batch runs, most recent first.",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := store.ListRuns(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list runs", err)
		}
		if err := outwriter.WriteRuns(runs, cfg); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// resultsStatusCmd summarizes the store contents.
var resultsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show result store status.",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot get store status", err)
		}
		fmt.Printf("Backend: %s\n", status.Backend)
		fmt.Printf("Connected: %t\n", status.Connected)
		fmt.Printf("Total runs: %d\n", status.TotalRuns)
		fmt.Printf("Total cases analyzed: %d\n", status.TotalCases)
		if status.TotalRuns > 0 {
			fmt.Printf("Last run: %d at %s\n", status.LastRunID, status.LastRunTime.Format("2006-01-02 15:04:05"))
			fmt.Printf("Oldest run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		}
		for table, size := range status.TableSizes {
			fmt.Printf("Table %s: %d rows\n", table, size)
		}
	},
}

// resultsClearCmd removes all stored rows and run records.
var resultsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete all stored results and run records.",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.Clear(); err != nil {
			contract.LogFatal("Cannot clear result store", err)
		}
		fmt.Println("Result store cleared.")
	},
}

// resultsExportCmd exports the store to Parquet files.
var resultsExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export stored results to Parquet files.",
	Long:    `Dump the result store to a pair of Parquet files (runs and metric rows) for analysis in external tooling.`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.Export(cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export results", err)
		}
	},
}

// resultsMigrateCmd runs schema migrations for the result store. It opens
// its own connection so migrations can run against a fresh database before
// any tables exist.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run result store schema migrations.",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend := schema.DatabaseBackend(viper.GetString("store-backend"))
		connStr := viper.GetString("store-db-connect")
		targetVersion := viper.GetInt("target-version")

		if err := resultstore.Migrate(backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Cannot run migrations", err)
		}
	},
}
