package resultstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashlab/crashpulse/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(schema.SQLiteBackend, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// sampleRow fills every persisted field so scan mismatches show up.
func sampleRow(testNo int64, updatedAt time.Time) schema.MetricRow {
	return schema.MetricRow{
		TestNo:            testNo,
		ChannelName:       "11XMEM000001ACXP",
		SensorLocation:    "Rear Seat Crossmember",
		PeakG:             38.52,
		TimeAtPeakMs:      14.9,
		DeltaVKph:         26.95,
		MaxCrushMm:        512.3,
		TimeAtMaxCrushMs:  88.1,
		OLCg:              24.11,
		SpecificEnergyJ:   180.4,
		TotalEnergyKJ:     270.6,
		ImpactVelocityKph: 56.3,
		BiasG:             0.02,
		ImpactStartMs:     0.4,
		UpdatedAt:         updatedAt,
	}
}

// TestNewUnsupportedBackend rejects unknown backends.
func TestNewUnsupportedBackend(t *testing.T) {
	_, err := New(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

// TestNoneBackendNoOps verifies that the disabled store answers every call
// without touching a database.
func TestNoneBackendNoOps(t *testing.T) {
	s, err := New(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := s.BeginRun(map[string]any{"cases": 1})
	require.NoError(t, err)
	assert.Zero(t, runID)

	assert.NoError(t, s.EndRun(0, 1))
	assert.NoError(t, s.UpsertMetrics([]schema.MetricRow{sampleRow(1, time.Now())}))

	row, err := s.GetMetrics(1)
	require.NoError(t, err)
	assert.Nil(t, row)

	rows, err := s.ListMetrics(10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, s.Clear())
	assert.NoError(t, s.Close())
}

// TestRunLifecycle covers BeginRun, EndRun and ListRuns against SQLite.
func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.BeginRun(map[string]any{"cases": 3, "cfc": 60})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, s.EndRun(runID, 3))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, 3, run.CasesAnalyzed)
	assert.False(t, run.StartTime.IsZero())
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.DurationMs)
	assert.GreaterOrEqual(t, *run.DurationMs, int64(0))
	assert.Contains(t, run.ConfigParams, `"cfc":60`)
}

// TestEndRunUnknownID fails when the run record does not exist.
func TestEndRunUnknownID(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorContains(t, s.EndRun(12345, 1), "failed to get start_time")
}

// TestUpsertGetRoundTrip checks that a full row survives the write/read
// cycle, including the textual timestamp.
func TestUpsertGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	updatedAt := time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)
	want := sampleRow(9001, updatedAt)

	require.NoError(t, s.UpsertMetrics([]schema.MetricRow{want}))

	got, err := s.GetMetrics(9001)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.UpdatedAt.Equal(want.UpdatedAt))
	got.UpdatedAt = want.UpdatedAt
	assert.Equal(t, want, *got)
}

// TestGetMetricsAbsent returns nil without an error for unknown tests.
func TestGetMetricsAbsent(t *testing.T) {
	s := newTestStore(t)

	row, err := s.GetMetrics(424242)
	require.NoError(t, err)
	assert.Nil(t, row)
}

// TestUpsertReplaces verifies one-row-per-test semantics.
func TestUpsertReplaces(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.UpsertMetrics([]schema.MetricRow{sampleRow(9001, now)}))

	updated := sampleRow(9001, now.Add(time.Minute))
	updated.PeakG = 44.44
	updated.CaseError = "reprocessed"
	require.NoError(t, s.UpsertMetrics([]schema.MetricRow{updated}))

	got, err := s.GetMetrics(9001)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 44.44, got.PeakG)
	assert.Equal(t, "reprocessed", got.CaseError)

	rows, err := s.ListMetrics(10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

// TestListMetricsOrderAndLimit verifies most-recent-first ordering and the
// limit clamp.
func TestListMetricsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var batch []schema.MetricRow
	for i := int64(1); i <= 5; i++ {
		batch = append(batch, sampleRow(9000+i, base.Add(time.Duration(i)*time.Second)))
	}
	require.NoError(t, s.UpsertMetrics(batch))

	rows, err := s.ListMetrics(3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(9005), rows[0].TestNo)
	assert.Equal(t, int64(9004), rows[1].TestNo)
	assert.Equal(t, int64(9003), rows[2].TestNo)

	// Out-of-range limits clamp to the default instead of failing.
	rows, err = s.ListMetrics(0)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

// TestListMetricsSubsecondOrdering verifies that rows differing only in
// fractional seconds still list most recent first. Variable-width fractional
// text would sort "10:00:00.5Z" after "10:00:00.55Z".
func TestListMetricsSubsecondOrdering(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertMetrics([]schema.MetricRow{
		sampleRow(9001, base.Add(500*time.Millisecond)),
		sampleRow(9002, base.Add(550*time.Millisecond)),
	}))

	rows, err := s.ListMetrics(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(9002), rows[0].TestNo, "most recent row must come first")
	assert.Equal(t, int64(9001), rows[1].TestNo)
}

// TestClear wipes both tables.
func TestClear(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.BeginRun(map[string]any{"cases": 1})
	require.NoError(t, err)
	require.NoError(t, s.EndRun(runID, 1))
	require.NoError(t, s.UpsertMetrics([]schema.MetricRow{sampleRow(1, time.Now().UTC())}))

	require.NoError(t, s.Clear())

	rows, err := s.ListMetrics(10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// TestGetStatus checks counts and the run-time span.
func TestGetStatus(t *testing.T) {
	s := newTestStore(t)

	empty, err := s.GetStatus()
	require.NoError(t, err)
	assert.True(t, empty.Connected)
	assert.Zero(t, empty.TotalRuns)

	runID, err := s.BeginRun(map[string]any{"cases": 2})
	require.NoError(t, err)
	require.NoError(t, s.EndRun(runID, 2))
	require.NoError(t, s.UpsertMetrics([]schema.MetricRow{
		sampleRow(1, time.Now().UTC()),
		sampleRow(2, time.Now().UTC()),
	}))

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, int64(2), status.TotalCases)
	assert.Equal(t, runID, status.LastRunID)
	assert.False(t, status.LastRunTime.IsZero())
	assert.Equal(t, int64(2), status.TableSizes[metricsTable])
	assert.Equal(t, int64(1), status.TableSizes[runsTable])
}

// TestExport writes the Parquet pair for a populated store and rejects an
// empty one.
func TestExport(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		s := newTestStore(t)
		assert.ErrorContains(t, s.Export(filepath.Join(t.TempDir(), "out")), "no result data")
	})

	t.Run("missing output file", func(t *testing.T) {
		s := newTestStore(t)
		assert.ErrorContains(t, s.Export(""), "--output-file is required")
	})

	t.Run("populated store", func(t *testing.T) {
		s := newTestStore(t)
		runID, err := s.BeginRun(map[string]any{"cases": 1})
		require.NoError(t, err)
		require.NoError(t, s.EndRun(runID, 1))
		require.NoError(t, s.UpsertMetrics([]schema.MetricRow{sampleRow(1, time.Now().UTC())}))

		out := filepath.Join(t.TempDir(), "export")
		require.NoError(t, s.Export(out))

		for _, suffix := range []string{".runs.parquet", ".metrics.parquet"} {
			info, err := os.Stat(out + suffix)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		}
	})
}

// TestMigrateSQLite runs the embedded migrations up and back down.
func TestMigrateSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
}

// TestMigrateNoneBackend rejects the disabled backend.
func TestMigrateNoneBackend(t *testing.T) {
	assert.ErrorContains(t, Migrate(schema.NoneBackend, "", -1),
		"not supported for NoneBackend")
}
