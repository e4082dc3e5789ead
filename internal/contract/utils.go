package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Severity label constants for OLC bands.
const (
	SevereValue   = "Severe"   // OLC at or beyond typical restraint limits
	HighValue     = "High"     // Stiff pulse, elevated occupant loading
	ModerateValue = "Moderate" // Typical full-width rigid barrier range
	MildValue     = "Mild"     // Soft pulse
)

// Color variables for console output.
var (
	SevereColor   = color.New(color.FgRed, color.Bold)
	HighColor     = color.New(color.FgMagenta, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	MildColor     = color.New(color.FgCyan)
)

// GetPlainLabel returns a plain text severity label for an OLC value in g.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(olcG float64) string {
	switch {
	case olcG >= 40:
		return SevereValue
	case olcG >= 30:
		return HighValue
	case olcG >= 20:
		return ModerateValue
	default:
		return MildValue
	}
}

// GetColorLabel returns a colored severity label for console output (table).
// It uses GetPlainLabel to determine the string, then applies the color.
func GetColorLabel(olcG float64) string {
	text := GetPlainLabel(olcG)

	switch text {
	case SevereValue:
		return SevereColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Mild"
		return MildColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for result storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".crashpulse.db"
	}
	return filepath.Join(homeDir, ".crashpulse.db")
}
