package outwriter

import (
	"fmt"
	"io"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// WriteSensorCode outputs a decoded channel code. The text form is a short
// field list rather than a table; decode is an interactive lookup command.
func WriteSensorCode(code schema.SensorCode, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, code)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		fmt.Fprintf(w, "Code:        %s\n", code.Original)
		if !code.Valid {
			fmt.Fprintf(w, "Valid:       false\n")
			if code.Error != "" {
				fmt.Fprintf(w, "Error:       %s\n", code.Error)
			}
		}
		if code.Object != "" {
			fmt.Fprintf(w, "Object:      %s\n", code.Object)
		}
		if code.Location != "" {
			fmt.Fprintf(w, "Location:    %s\n", code.Location)
		}
		if code.SensorType != "" {
			fmt.Fprintf(w, "Sensor type: %s\n", code.SensorType)
		}
		if code.Axis != "" {
			fmt.Fprintf(w, "Axis:        %s\n", code.Axis)
		}
		return nil
	}, "Wrote decode")
}
