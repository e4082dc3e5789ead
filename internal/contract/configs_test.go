package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashlab/crashpulse/schema"
)

// validInput returns raw inputs matching the shipped defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		CFC:            DefaultCFC,
		BiasWindowMs:   DefaultBiasWindowMs,
		BiasLimitRatio: DefaultBiasLimitRatio,
		AnchorG:        DefaultAnchorG,
		ReleaseG:       DefaultReleaseG,
		OLCTargetS1:    DefaultOLCTargetS1M,
		OLCTargetS2:    DefaultOLCTargetS2M,
		OLCMode:        "solver",
		Workers:        4,
		Limit:          DefaultResultLimit,
		Output:         "text",
		Precision:      DefaultPrecision,
		Color:          "yes",
		StoreBackend:   "sqlite",
	}
}

// TestProcessAndValidateDefaults checks that default inputs populate the
// final config.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, DefaultCFC, cfg.CFC)
	assert.Equal(t, DefaultAnchorG, cfg.AnchorG)
	assert.Equal(t, schema.OLCSolverMode, cfg.OLCMode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
}

// TestProcessAndValidateRejects runs the invalid-knob table.
func TestProcessAndValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		errPart string
	}{
		{
			name:    "non-positive cfc",
			mutate:  func(in *ConfigRawInput) { in.CFC = 0 },
			errPart: "cfc must be positive",
		},
		{
			name:    "non-positive bias window",
			mutate:  func(in *ConfigRawInput) { in.BiasWindowMs = -1 },
			errPart: "bias-window-ms",
		},
		{
			name:    "bias limit ratio above one",
			mutate:  func(in *ConfigRawInput) { in.BiasLimitRatio = 1.5 },
			errPart: "bias-limit-ratio",
		},
		{
			name:    "positive anchor",
			mutate:  func(in *ConfigRawInput) { in.AnchorG = 5 },
			errPart: "anchor-g must be negative",
		},
		{
			name:    "positive release",
			mutate:  func(in *ConfigRawInput) { in.ReleaseG = 0 },
			errPart: "release-g must be negative",
		},
		{
			name:    "anchor above release",
			mutate:  func(in *ConfigRawInput) { in.AnchorG = -0.1 },
			errPart: "must be below release-g",
		},
		{
			name:    "olc targets out of order",
			mutate:  func(in *ConfigRawInput) { in.OLCTargetS2 = 0.01 },
			errPart: "olc targets",
		},
		{
			name:    "unknown olc mode",
			mutate:  func(in *ConfigRawInput) { in.OLCMode = "fancy" },
			errPart: "invalid olc-mode",
		},
		{
			name:    "negative impact speed",
			mutate:  func(in *ConfigRawInput) { in.ImpactKph = -10 },
			errPart: "impact-kph",
		},
		{
			name:    "negative mass",
			mutate:  func(in *ConfigRawInput) { in.MassKg = -100 },
			errPart: "mass-kg",
		},
		{
			name:    "limit above cap",
			mutate:  func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			errPart: "limit must be in",
		},
		{
			name:    "unknown output mode",
			mutate:  func(in *ConfigRawInput) { in.Output = "xml" },
			errPart: "invalid output mode",
		},
		{
			name:    "precision out of range",
			mutate:  func(in *ConfigRawInput) { in.Precision = 11 },
			errPart: "precision",
		},
		{
			name:    "unknown store backend",
			mutate:  func(in *ConfigRawInput) { in.StoreBackend = "oracle" },
			errPart: "invalid store backend",
		},
		{
			name:    "mysql without connection string",
			mutate:  func(in *ConfigRawInput) { in.StoreBackend = "mysql" },
			errPart: "store-db-connect is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := ProcessAndValidate(&Config{}, in)
			assert.ErrorContains(t, err, tt.errPart)
		})
	}
}

// TestProcessAndValidateWorkerFallback checks that a non-positive worker
// count falls back to GOMAXPROCS instead of erroring.
func TestProcessAndValidateWorkerFallback(t *testing.T) {
	in := validInput()
	in.Workers = 0

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Positive(t, cfg.Workers)
}

// TestParseBoolish pins the accepted flag spellings.
func TestParseBoolish(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1", "on", ""} {
		assert.Truef(t, parseBoolish(s), "%q should parse true", s)
	}
	for _, s := range []string{"no", "false", "0", "off", "nope"} {
		assert.Falsef(t, parseBoolish(s), "%q should parse false", s)
	}
}

// TestConfigClone verifies that per-case mutation of a clone leaves the base
// untouched.
func TestConfigClone(t *testing.T) {
	cfg := &Config{ChannelName: "A", VehicleMassKg: 1000}
	clone := cfg.Clone()
	clone.ChannelName = "B"
	clone.VehicleMassKg = 2000

	assert.Equal(t, "A", cfg.ChannelName)
	assert.Equal(t, 1000.0, cfg.VehicleMassKg)
}

// TestGetPlainLabel pins the OLC severity bands.
func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		olcG     float64
		expected string
	}{
		{5, MildValue},
		{19.99, MildValue},
		{20, ModerateValue},
		{29.5, ModerateValue},
		{30, HighValue},
		{40, SevereValue},
		{55, SevereValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetPlainLabel(tt.olcG))
	}
}
