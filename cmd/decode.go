package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crashlab/crashpulse/core/channel"
	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/internal/outwriter"
)

// decodeCmd decodes NHTSA channel codes.
var decodeCmd = &cobra.Command{
	Use:   "decode <code>...",
	Short: "Decode 16-character NHTSA channel codes.",
	Long: `Translate NHTSA channel codes into object, location, sensor type, and axis.

Examples:
  crashpulse decode 11XMEM00RE00ACXD
  crashpulse decode 11SILLLERE00ACXD 20BPLRRIUP00ACYD --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		for _, code := range args {
			decoded := channel.DecodeSensorCode(code)
			if err := outwriter.WriteSensorCode(decoded, cfg); err != nil {
				contract.LogFatal("Cannot write output", err)
			}
		}
	},
}
