package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for result storage.
	DatabaseBackend string

	// OLCMode represents the OLC definition used by the pipeline.
	OLCMode string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// The two OLC definitions in circulation. The solver mode computes the
// Euro NCAP two-point solution; the approx mode is the mean-deceleration
// proxy some labs report instead. They are not interchangeable numbers.
const (
	OLCSolverMode OLCMode = "solver" // default
	OLCApproxMode OLCMode = "approx"
)

// Gravity is standard gravity in m/s^2, used for all g-unit conversions.
const Gravity = 9.80665

// Metric result keys emitted by the built-in strategies.
const (
	KeyPeakG          = "Peak_G"
	KeyTimeAtPeak     = "Time_at_Peak_ms"
	KeyDeltaV         = "Delta_V_kph"
	KeyMaxCrush       = "Max_Dynamic_Crush_mm"
	KeyTimeAtMaxCrush = "Time_at_Max_Crush_ms"
	KeySpecificEnergy = "Specific_Energy_Absorbed_J_kg"
	KeyTotalEnergy    = "Total_Energy_Absorbed_kJ"
	KeyOLC            = "OLC_g"
	KeyOLCT1          = "OLC_t1_ms"
	KeyOLCT2          = "OLC_t2_ms"
	KeyOLCApprox      = "OLC_Approx_G"
)
