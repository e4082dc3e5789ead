package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crashlab/crashpulse/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Crashpulse MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze crash recordings and query stored metrics via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal output when running in MCP mode to avoid
		// polluting stdio which is used for the protocol.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(context.Background(), cfg, opener, store)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
