//go:build basic

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCrashpulseAnalyzeSQLite runs a single analysis end to end with the
// default SQLite store.
func TestCrashpulseAnalyzeSQLite(t *testing.T) {
	dir := t.TempDir()
	recPath := writeRecording(t, dir, 9001, 40.0)
	dbPath := filepath.Join(dir, "results.db")

	_ = os.Setenv("CRASHPULSE_STORE_DB_CONNECT", dbPath)
	defer func() { _ = os.Unsetenv("CRASHPULSE_STORE_DB_CONNECT") }()

	out, err := runCrashpulseOutput(t, "analyze", recPath)
	require.NoError(t, err)
	assert.Contains(t, out, "11SILLLERE00ACXD")
	assert.Contains(t, out, "Peak_G")

	out, err = runCrashpulseOutput(t, "results", "get", "9001")
	require.NoError(t, err)
	assert.Contains(t, out, "9001")
}

// TestCrashpulseBatchNoStore runs a batch with persistence disabled and a
// CSV summary file.
func TestCrashpulseBatchNoStore(t *testing.T) {
	dir := t.TempDir()
	paths := map[int64]string{
		9101: writeRecording(t, dir, 9101, 30.0),
		9102: writeRecording(t, dir, 9102, 50.0),
	}
	listPath := writeBatchList(t, dir, paths)
	outFile := filepath.Join(dir, "summary.csv")

	out, err := runCrashpulseOutput(t, "batch", listPath,
		"--store-backend", "none",
		"--output", "csv",
		"--output-file", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 2 cases")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "9101")
	assert.Contains(t, string(data), "9102")
}

// TestCrashpulseDecode decodes a channel code without touching any store.
func TestCrashpulseDecode(t *testing.T) {
	out, err := runCrashpulseOutput(t, "decode", "11SILLLERE00ACXD")
	require.NoError(t, err)
	assert.Contains(t, out, "Accelerometer")
	assert.Contains(t, out, "Sill")
}

// runCrashpulseOutput runs the shared binary and returns its combined output.
func runCrashpulseOutput(t *testing.T, args ...string) (string, error) {
	crashpulsePath := getCrashpulseBinary()
	cmd := exec.Command(crashpulsePath, args...)
	cmd.Dir = "../"
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return strings.TrimSpace(string(output)), err
}
