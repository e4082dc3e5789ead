package recio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crashlab/crashpulse/schema"
)

// Expected batch CSV columns. Header matching is case-insensitive and
// order-independent; only test_no and recording_path are mandatory.
const (
	colTestNo    = "test_no"
	colChannel   = "channel_name"
	colRecording = "recording_path"
	colMass      = "mass_kg"
	colImpact    = "impact_kph"
)

// ReadBatchList parses a batch selection CSV into cases. Relative recording
// paths resolve against the CSV's own directory so a selection list can
// travel with its data. Blank lines and rows with an unparsable test number
// are rejected, not skipped; a malformed list should fail loudly before a
// long batch run starts.
func ReadBatchList(path string) ([]schema.BatchCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read batch list: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("batch list %s has no data rows", path)
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("batch list %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	cases := make([]schema.BatchCase, 0, len(records)-1)
	for n, row := range records[1:] {
		c, err := parseRow(row, idx, baseDir)
		if err != nil {
			return nil, fmt.Errorf("batch list %s row %d: %w", path, n+2, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// headerIndex maps known column names to their positions.
func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colTestNo, colRecording} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int, baseDir string) (schema.BatchCase, error) {
	var c schema.BatchCase

	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	testNo, err := strconv.ParseInt(field(colTestNo), 10, 64)
	if err != nil {
		return c, fmt.Errorf("bad test_no %q", field(colTestNo))
	}
	c.TestNo = testNo

	recPath := field(colRecording)
	if recPath == "" {
		return c, fmt.Errorf("empty recording_path")
	}
	if !filepath.IsAbs(recPath) {
		recPath = filepath.Join(baseDir, recPath)
	}
	c.RecordingPath = recPath

	c.ChannelName = field(colChannel)
	if v := field(colMass); v != "" {
		if c.VehicleMassKg, err = strconv.ParseFloat(v, 64); err != nil {
			return c, fmt.Errorf("bad mass_kg %q", v)
		}
	}
	if v := field(colImpact); v != "" {
		if c.ImpactKph, err = strconv.ParseFloat(v, 64); err != nil {
			return c, fmt.Errorf("bad impact_kph %q", v)
		}
	}
	return c, nil
}
