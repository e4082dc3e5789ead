package channel

import (
	"strings"

	"github.com/crashlab/crashpulse/schema"
)

// Lookup tables for the 16-character NHTSA channel code. The tables cover
// the codes seen in vehicle crash recordings; unknown keys decode as
// "Unknown" rather than failing, since vendors extend the vocabulary freely.
var (
	nhtsaObjects = map[string]string{
		"11": "Vehicle 1",
		"12": "Vehicle 1 Occupant 1",
		"13": "Vehicle 1 Occupant 2",
		"20": "Vehicle 2 / Barrier",
		"21": "Moving Deformable Barrier",
		"00": "Test Fixture",
	}

	nhtsaBroadLocations = map[string]string{
		"SEAT": "Seat",
		"SILL": "Sill",
		"DOOR": "Door",
		"PLLR": "Pillar",
		"ENGN": "Engine",
		"BPLR": "B-Pillar",
		"APLR": "A-Pillar",
		"CPLR": "C-Pillar",
		"XMEM": "Crossmember",
		"ROOF": "Roof",
		"FLPN": "Floorpan",
		"BRAK": "Brake",
		"STRG": "Steering Column",
		"INST": "Instrument Panel",
		"BUMP": "Bumper",
		"HEAD": "Head",
		"CHST": "Chest",
		"PELV": "Pelvis",
		"FMRL": "Left Femur",
		"FMRR": "Right Femur",
	}

	nhtsaSpecificLocations = map[string]string{
		"LERE": "Left Rear",
		"RIRE": "Right Rear",
		"LEFR": "Left Front",
		"RIFR": "Right Front",
		"CENT": "Center",
		"TOPP": "Top",
		"BOTM": "Bottom",
		"MIDD": "Middle",
	}

	nhtsaSensorTypes = map[string]string{
		"AC": "Accelerometer",
		"LC": "Load Cell",
		"DS": "Displacement Sensor",
		"AV": "Angular Velocity Sensor",
		"PR": "Pressure Sensor",
		"TC": "Thermocouple",
		"SG": "Strain Gauge",
	}

	nhtsaAxes = map[string]string{
		"X": "Longitudinal (X)",
		"Y": "Lateral (Y)",
		"Z": "Vertical (Z)",
		"R": "Resultant",
		"0": "Not Applicable",
	}
)

// lookupOr returns the mapped value or "Unknown".
func lookupOr(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return "Unknown"
}

// DecodeSensorCode translates a 16-character NHTSA channel code into its
// object, location, sensor type, and axis. Numeric specific-location fields
// decode as matrix coordinates. A code is valid when at least its broad
// location and sensor type are recognized.
func DecodeSensorCode(code string) schema.SensorCode {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 16 {
		return schema.SensorCode{Original: code, Valid: false, Error: "code shorter than 16 characters"}
	}

	objKey := code[0:2]
	locBroadKey := code[2:6]
	locSpecKey := code[6:10]
	sensKey := code[12:14]
	axisKey := code[14:15]

	locBroad := lookupOr(nhtsaBroadLocations, locBroadKey)

	locSpec, ok := nhtsaSpecificLocations[locSpecKey]
	if !ok {
		if isDigits(locSpecKey) {
			locSpec = "Matrix/Coord " + locSpecKey
		} else {
			locSpec = "Unknown"
		}
	}

	sensType := lookupOr(nhtsaSensorTypes, sensKey)

	return schema.SensorCode{
		Original:   code,
		Valid:      locBroad != "Unknown" && sensType != "Unknown",
		Object:     lookupOr(nhtsaObjects, objKey),
		Location:   locBroad + " - " + locSpec,
		SensorType: sensType,
		Axis:       lookupOr(nhtsaAxes, axisKey),
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
