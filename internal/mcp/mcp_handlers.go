package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/crashlab/crashpulse/core"
	"github.com/crashlab/crashpulse/core/channel"
	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	opener  contract.RecordingOpener
	store   contract.ResultStore
}

func (h *toolHandler) handleAnalyzeRecording(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	cfg := h.baseCfg.Clone()
	if c := request.GetString("channel", ""); c != "" {
		cfg.ChannelName = c
	}
	if v := request.GetFloat("impact_kph", 0); v > 0 {
		cfg.ImpactVelocityKph = v
	}
	if m := request.GetFloat("mass_kg", 0); m > 0 {
		cfg.VehicleMassKg = m
	}
	if mode := request.GetString("olc_mode", ""); mode != "" {
		cfg.OLCMode = schema.OLCMode(mode)
	}

	rec, err := h.opener.Open(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open recording: %v", err)), nil
	}

	result, err := core.AnalyzeCase(rec, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	// Strip the sample arrays; MCP clients want the numbers, not megabytes
	// of waveform.
	summary := map[string]any{
		"channel":             result.Channel.Name,
		"sensor_location":     result.Channel.LocationLabel,
		"impact_velocity_kph": result.ImpactVelocityKph,
		"impact_angle_deg":    result.ImpactAngleDeg,
		"metrics":             result.Metrics,
		"errors":              result.Errors,
	}
	if result.Signal != nil {
		summary["bias_g"] = result.Signal.BiasValue
		if result.Signal.ImpactStartIndex < len(result.Signal.TimeMs) {
			summary["impact_start_ms"] = result.Signal.TimeMs[result.Signal.ImpactStartIndex]
		}
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDecodeChannelCode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := request.GetString("code", "")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	decoded := channel.DecodeSensorCode(code)
	jsonData, _ := json.MarshalIndent(decoded, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListResults(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no result store configured"), nil
	}

	limit := request.GetInt("limit", h.baseCfg.ResultLimit)
	rows, err := h.store.ListMetrics(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list results: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetResult(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no result store configured"), nil
	}

	testNo := request.GetInt("test_no", 0)
	if testNo <= 0 {
		return mcp.NewToolResultError("test_no is required"), nil
	}

	row, err := h.store.GetMetrics(int64(testNo))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get result: %v", err)), nil
	}
	if row == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no stored result for test %d", testNo)), nil
	}

	jsonData, _ := json.MarshalIndent(row, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
