package contract

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/crashlab/crashpulse/schema"
)

// Default values for configuration.
const (
	DefaultCFC            = 60
	DefaultBiasWindowMs   = 10.0
	DefaultBiasLimitRatio = 0.2
	DefaultAnchorG        = -5.0
	DefaultReleaseG       = -0.5
	DefaultOLCTargetS1M   = 0.065
	DefaultOLCTargetS2M   = 0.300
	DefaultResultLimit    = 25
	MaxResultLimit        = 1000
	DefaultPrecision      = 2
	MinSamples            = 10
	WindowStartS          = -0.050
	WindowEndS            = 0.250
)

// DefaultWorkers is the default number of concurrent workers for batch runs.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	// Signal processing
	CFC            int     // Channel Frequency Class (60, 180, or custom)
	BiasWindowMs   float64 // Bias search window duration
	BiasLimitRatio float64 // Fraction of the trace searched for bias
	AnchorG        float64 // Hard impact threshold (negative g)
	ReleaseG       float64 // Lenient pre-impact threshold (negative g)
	OLCTargetS1M   float64 // Free-flight displacement starting restraint loading
	OLCTargetS2M   float64 // Total relative displacement at re-convergence
	OLCMode        schema.OLCMode

	// Per-case physics inputs (flag/CSV overrides; metadata wins when present)
	ImpactVelocityKph float64
	VehicleMassKg     float64

	// Channel selection
	ChannelName string // Exact-name selection, bypassing scoring

	// Batch execution
	Workers     int
	ResultLimit int

	// Output
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	// Persistence
	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	CFC            int     `mapstructure:"cfc"`
	BiasWindowMs   float64 `mapstructure:"bias-window-ms"`
	BiasLimitRatio float64 `mapstructure:"bias-limit-ratio"`
	AnchorG        float64 `mapstructure:"anchor-g"`
	ReleaseG       float64 `mapstructure:"release-g"`
	OLCTargetS1    float64 `mapstructure:"olc-s1"`
	OLCTargetS2    float64 `mapstructure:"olc-s2"`
	OLCMode        string  `mapstructure:"olc-mode"`

	ImpactKph float64 `mapstructure:"impact-kph"`
	MassKg    float64 `mapstructure:"mass-kg"`

	Channel string `mapstructure:"channel"`

	Workers int `mapstructure:"workers"`
	Limit   int `mapstructure:"limit"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateProcessing(cfg, input); err != nil {
		return err
	}
	if err := validateExecution(cfg, input); err != nil {
		return err
	}
	return validateStore(cfg, input)
}

// validateProcessing checks the signal-processing knobs.
func validateProcessing(cfg *Config, input *ConfigRawInput) error {
	if input.CFC <= 0 {
		return fmt.Errorf("cfc must be positive, got %d", input.CFC)
	}
	cfg.CFC = input.CFC

	if input.BiasWindowMs <= 0 {
		return fmt.Errorf("bias-window-ms must be positive, got %g", input.BiasWindowMs)
	}
	cfg.BiasWindowMs = input.BiasWindowMs

	if input.BiasLimitRatio <= 0 || input.BiasLimitRatio > 1 {
		return fmt.Errorf("bias-limit-ratio must be in (0, 1], got %g", input.BiasLimitRatio)
	}
	cfg.BiasLimitRatio = input.BiasLimitRatio

	if input.AnchorG >= 0 {
		return fmt.Errorf("anchor-g must be negative, got %g", input.AnchorG)
	}
	if input.ReleaseG >= 0 {
		return fmt.Errorf("release-g must be negative, got %g", input.ReleaseG)
	}
	if input.AnchorG >= input.ReleaseG {
		return fmt.Errorf("anchor-g (%g) must be below release-g (%g)", input.AnchorG, input.ReleaseG)
	}
	cfg.AnchorG = input.AnchorG
	cfg.ReleaseG = input.ReleaseG

	if input.OLCTargetS1 <= 0 || input.OLCTargetS2 <= input.OLCTargetS1 {
		return fmt.Errorf("olc targets must satisfy 0 < s1 < s2, got s1=%g s2=%g", input.OLCTargetS1, input.OLCTargetS2)
	}
	cfg.OLCTargetS1M = input.OLCTargetS1
	cfg.OLCTargetS2M = input.OLCTargetS2

	switch schema.OLCMode(input.OLCMode) {
	case schema.OLCSolverMode, schema.OLCApproxMode:
		cfg.OLCMode = schema.OLCMode(input.OLCMode)
	default:
		return fmt.Errorf("invalid olc-mode: %q (choose solver or approx)", input.OLCMode)
	}

	if input.ImpactKph < 0 {
		return fmt.Errorf("impact-kph must not be negative, got %g", input.ImpactKph)
	}
	cfg.ImpactVelocityKph = input.ImpactKph

	if input.MassKg < 0 {
		return fmt.Errorf("mass-kg must not be negative, got %g", input.MassKg)
	}
	cfg.VehicleMassKg = input.MassKg

	cfg.ChannelName = strings.TrimSpace(input.Channel)
	return nil
}

// validateExecution checks worker counts, limits and output settings.
func validateExecution(cfg *Config, input *ConfigRawInput) error {
	if input.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	} else {
		cfg.Workers = input.Workers
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be in [1, %d], got %d", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	switch schema.OutputMode(input.Output) {
	case schema.TextOut, schema.CSVOut, schema.JSONOut:
		cfg.Output = schema.OutputMode(input.Output)
	default:
		return fmt.Errorf("invalid output mode: %q", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > 10 {
		return fmt.Errorf("precision must be in [0, 10], got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.UseColors = parseBoolish(input.Color)
	cfg.Width = input.Width
	return nil
}

// validateStore checks the persistence backend settings.
func validateStore(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(input.StoreBackend)
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		cfg.StoreBackend = backend
	default:
		return fmt.Errorf("invalid store backend: %q", input.StoreBackend)
	}

	if backend == schema.MySQLBackend || backend == schema.PostgreSQLBackend {
		if strings.TrimSpace(input.StoreDBConnect) == "" {
			return fmt.Errorf("store-db-connect is required for %s backend", backend)
		}
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return nil
}

// parseBoolish accepts the yes/no/true/false/1/0 spellings used on flags.
func parseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on", "":
		return true
	default:
		return false
	}
}
