// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/crashlab/crashpulse/internal/contract"
)

// NewMCPServer initializes and configures the Crashpulse MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, opener contract.RecordingOpener, store contract.ResultStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Crashpulse Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		opener:  opener,
		store:   store,
	}

	// --- 1. Tool: analyze_recording ---
	s.AddTool(mcp.NewTool("analyze_recording",
		mcp.WithDescription("Reconstruct the crash pulse from a recording and compute injury and structural metrics."),
		mcp.WithString("path", mcp.Description("Path to the recording container file."), mcp.Required()),
		mcp.WithString("channel", mcp.Description("Exact channel name to analyze (auto-selected if not specified).")),
		mcp.WithNumber("impact_kph", mcp.Description("Known impact velocity in km/h when the recording metadata lacks one.")),
		mcp.WithNumber("mass_kg", mcp.Description("Vehicle test mass in kg, enables energy metrics.")),
		mcp.WithString("olc_mode", mcp.Description("Occupant load criterion definition (solver or approx). Defaults to 'solver'."), mcp.Enum("solver", "approx")),
	), h.handleAnalyzeRecording)

	// --- 2. Tool: decode_channel_code ---
	s.AddTool(mcp.NewTool("decode_channel_code",
		mcp.WithDescription("Decode a 16-character NHTSA channel code into object, location, sensor type, and axis."),
		mcp.WithString("code", mcp.Description("The channel code to decode."), mcp.Required()),
	), h.handleDecodeChannelCode)

	// --- 3. Tool: list_results ---
	s.AddTool(mcp.NewTool("list_results",
		mcp.WithDescription("List stored crash metric results, most recent first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListResults)

	// --- 4. Tool: get_result ---
	s.AddTool(mcp.NewTool("get_result",
		mcp.WithDescription("Get the stored metric row for one test number."),
		mcp.WithNumber("test_no", mcp.Description("The test number to look up."), mcp.Required()),
	), h.handleGetResult)

	return s
}

// StartMCPServer starts the Crashpulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, opener contract.RecordingOpener, store contract.ResultStore) error {
	s := NewMCPServer(baseCfg, opener, store)
	return server.ServeStdio(s)
}
