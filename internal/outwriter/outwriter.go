// Package outwriter has output and writer logic.
package outwriter

import (
	"io"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/plot"
	"github.com/huangsam/metricsgraph/internal/svg"
	"github.com/huangsam/metricsgraph/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteMetrics lists the registry datasets using the configured output format.
func (ow *OutWriter) WriteMetrics(datasets []schema.MetricDataset, active string, cfg *contract.Config) error {
	return PrintMetrics(datasets, active, cfg)
}

// WritePaths prints generated paths using the configured output format.
func (ow *OutWriter) WritePaths(charts []schema.Chart, cfg *contract.Config) error {
	return PrintPaths(charts, cfg)
}

// WriteChart renders one chart as SVG or PNG to the configured output file or stdout.
func (ow *OutWriter) WriteChart(chart schema.Chart, cfg *contract.Config) error {
	switch cfg.Format {
	case schema.PNGFormat:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return plot.RenderPNG(w, chart)
		}, "Wrote PNG")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return svg.Render(w, chart, svg.Options{Animation: cfg.Animation})
		}, "Wrote SVG")
	}
}
