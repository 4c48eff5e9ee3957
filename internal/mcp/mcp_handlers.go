package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/svg"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// geometryOf applies the viewport arguments of a request over the configured one.
func (h *toolHandler) geometryOf(request mcp.CallToolRequest) schema.Geometry {
	g := h.baseCfg.Geometry
	g.Width = request.GetFloat("width", g.Width)
	g.Height = request.GetFloat("height", g.Height)
	g.Padding = request.GetFloat("padding", g.Padding)
	return g
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(schema.SummarizeDatasets(h.baseCfg.Registry.Datasets()))
}

func (h *toolHandler) handleGetMetric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := h.baseCfg.Registry.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (h *toolHandler) handleGetMetricPaths(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	series, ok := schema.ParseSeries(request.GetString("series", string(schema.BothSeries)))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series %q", request.GetString("series", ""))), nil
	}

	chart, err := core.CachedBuildChart(h.mgr, h.baseCfg.Registry, id, h.geometryOf(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("path generation failed: %v", err)), nil
	}

	paths := schema.MetricPaths{MetricID: chart.MetricID}
	if series != schema.CurrentSeries {
		paths.BaselinePath = chart.BaselinePath
	}
	if series != schema.BaselineSeries {
		paths.CurrentPath = chart.CurrentPath
	}
	return jsonResult(paths)
}

func (h *toolHandler) handleRenderChartSVG(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chart, err := core.CachedBuildChart(h.mgr, h.baseCfg.Registry, id, h.geometryOf(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}

	opts := svg.Options{Animation: h.baseCfg.Animation}
	if !request.GetBool("animate", true) {
		opts.Animation = 0
	}
	doc, err := svg.RenderString(chart, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(doc)), nil
}
