// Package cmd defines the command-line interface for crashpulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the results subcommands to the parent results command
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsGetCmd)
	resultsCmd.AddCommand(resultsRunsCmd)
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("cfc", contract.DefaultCFC, "Channel frequency class for filtering (60: structural, 180: dummy)")
	rootCmd.PersistentFlags().Float64("bias-window-ms", contract.DefaultBiasWindowMs, "Sliding window duration for sensor bias estimation")
	rootCmd.PersistentFlags().Float64("bias-limit-ratio", contract.DefaultBiasLimitRatio, "Fraction of the trace searched for the bias window")
	rootCmd.PersistentFlags().Float64("anchor-g", contract.DefaultAnchorG, "Hard deceleration threshold anchoring impact detection (negative g)")
	rootCmd.PersistentFlags().Float64("release-g", contract.DefaultReleaseG, "Lenient threshold the onset backtracks to (negative g)")
	rootCmd.PersistentFlags().Float64("olc-s1", contract.DefaultOLCTargetS1M, "Occupant free-flight displacement before restraint loading (m)")
	rootCmd.PersistentFlags().Float64("olc-s2", contract.DefaultOLCTargetS2M, "Total occupant displacement at velocity re-convergence (m)")
	rootCmd.PersistentFlags().String("olc-mode", string(schema.OLCSolverMode), "Occupant load criterion definition: solver or approx")
	rootCmd.PersistentFlags().Float64("impact-kph", 0, "Known impact velocity in km/h (overrides missing metadata)")
	rootCmd.PersistentFlags().Float64("mass-kg", 0, "Vehicle test mass in kg, enables total energy metrics")
	rootCmd.PersistentFlags().StringP("channel", "c", "", "Exact channel name to analyze (auto-selected when empty)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Result store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}
