// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the metricsgraph MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Metricsgraph Chart Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	geometry := []mcp.ToolOption{
		mcp.WithNumber("width", mcp.Description("Viewport width in pixels (defaults to the configured width).")),
		mcp.WithNumber("height", mcp.Description("Viewport height in pixels (defaults to the configured height).")),
		mcp.WithNumber("padding", mcp.Description("Padding on every side in pixels (defaults to the configured padding).")),
	}

	// --- 1. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the registered metric datasets in cycling order with their final values."),
	), h.handleListMetrics)

	// --- 2. Tool: get_metric ---
	s.AddTool(mcp.NewTool("get_metric",
		mcp.WithDescription("Get one metric dataset with every data point."),
		mcp.WithString("id", mcp.Description("The metric id, e.g. 'time'."), mcp.Required()),
	), h.handleGetMetric)

	// --- 3. Tool: get_metric_paths ---
	s.AddTool(mcp.NewTool("get_metric_paths", append([]mcp.ToolOption{
		mcp.WithDescription("Generate the SVG path strings of a metric at a given viewport."),
		mcp.WithString("id", mcp.Description("The metric id, e.g. 'time'."), mcp.Required()),
		mcp.WithString("series", mcp.Description("Which series to return. Defaults to 'both'."), mcp.Enum("both", "baseline", "current")),
	}, geometry...)...), h.handleGetMetricPaths)

	// --- 4. Tool: render_chart_svg ---
	s.AddTool(mcp.NewTool("render_chart_svg", append([]mcp.ToolOption{
		mcp.WithDescription("Render the full chart of a metric as an SVG document."),
		mcp.WithString("id", mcp.Description("The metric id, e.g. 'time'."), mcp.Required()),
		mcp.WithBoolean("animate", mcp.Description("Include the entry animation. Defaults to true.")),
	}, geometry...)...), h.handleRenderChartSVG)

	return s
}

// StartMCPServer starts the metricsgraph MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
