package resultstore

import (
	"fmt"
	"time"
)

// Status summarizes the contents of a result store.
type Status struct {
	Backend       string
	Connected     bool
	TotalRuns     int64
	TotalCases    int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TableSizes    map[string]int64
}

// GetStatus returns counts and the run-time span of the store.
func (s *Store) GetStatus() (Status, error) {
	status := Status{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTimeStr string
		row = s.db.QueryRow(fmt.Sprintf(
			"SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := time.Parse(timeLayout, lastRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		var oldestStr string
		row = s.db.QueryRow(fmt.Sprintf(
			"SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable))
		if err := row.Scan(&oldestStr); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime, err = time.Parse(timeLayout, oldestStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}

		row = s.db.QueryRow(fmt.Sprintf(
			"SELECT COALESCE(SUM(cases_analyzed), 0) FROM %s", runsTable))
		if err := row.Scan(&status.TotalCases); err != nil {
			return status, fmt.Errorf("failed to get total cases: %w", err)
		}
	}

	for _, table := range []string{runsTable, metricsTable} {
		row = s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}
