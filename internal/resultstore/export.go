package resultstore

import (
	"errors"
	"fmt"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/internal/parquet"
)

// Export dumps the whole store to a pair of Parquet files next to
// outputFile: one for runs, one for metric rows.
func (s *Store) Export(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := s.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TableSizes[metricsTable] == 0 && status.TotalRuns == 0 {
		return errors.New("no result data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total metric rows: %d\n", status.TableSizes[metricsTable])

	runs, err := s.ListRuns(contract.MaxResultLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	rows, err := s.ListMetrics(contract.MaxResultLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve metric rows: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	metricsFile := outputFile + ".metrics.parquet"
	if err := parquet.WriteMetricsParquet(parquet.ConvertMetricRows(rows), metricsFile); err != nil {
		return fmt.Errorf("failed to write metric rows: %w", err)
	}
	fmt.Printf("Exported %d metric rows to: %s\n", len(rows), metricsFile)

	return nil
}
