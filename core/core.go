// Package core has core logic for datasets, path generation and metric cycling.
package core

import (
	"context"
	"errors"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/outwriter"
	"github.com/huangsam/metricsgraph/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// writer is swapped in tests.
var writer contract.OutputWriter = outwriter.NewOutWriter()

// ExecuteMetrics lists every registered dataset and marks the initial metric.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if cfg.Registry == nil {
		return errors.New("no registry loaded")
	}
	return writer.WriteMetrics(cfg.Registry.Datasets(), initialMetric(cfg), cfg)
}

// ExecutePaths prints the paths of one metric when one is selected, otherwise of all metrics.
func ExecutePaths(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.Registry == nil {
		return errors.New("no registry loaded")
	}
	ids := cfg.Registry.ListIDs()
	if cfg.InitialMetric != "" {
		ids = []string{cfg.InitialMetric}
	}

	charts := make([]schema.Chart, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		chart, err := CachedBuildChart(mgr, cfg.Registry, id, cfg.Geometry)
		if err != nil {
			return err
		}
		charts = append(charts, chart)
	}
	return writer.WritePaths(charts, cfg)
}

// ExecuteRender renders the selected metric, or the first registered one, as an image.
func ExecuteRender(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.Registry == nil {
		return errors.New("no registry loaded")
	}
	chart, err := CachedBuildChart(mgr, cfg.Registry, initialMetric(cfg), cfg.Geometry)
	if err != nil {
		return err
	}
	return writer.WriteChart(chart, cfg)
}

// initialMetric returns the configured metric or the first one in cycling order.
func initialMetric(cfg *contract.Config) string {
	if cfg.InitialMetric != "" {
		return cfg.InitialMetric
	}
	if ids := cfg.Registry.ListIDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
