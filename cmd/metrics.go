package cmd

import (
	"github.com/huangsam/metricsgraph/core"
	"github.com/spf13/cobra"
)

// metricsCmd lists the registered datasets.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the registered metric datasets in cycling order",
	Long: `Show every registered metric dataset in the order the chart cycles through them.

Displays:
- Metric id, title and unit
- Number of data points
- Final baseline and current values with the trend between them

The built-in datasets are always registered. Extra datasets come from the
catalog section of the config file or from --datasets.

Examples:
  # List built-in metrics
  metricsgraph metrics

  # Include datasets from a file and export as JSON
  metricsgraph metrics --datasets team.yaml --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(rootCtx, core.ExecuteMetrics, "Cannot list metrics")
	},
}

// pathsCmd prints generated path strings.
var pathsCmd = &cobra.Command{
	Use:   "paths [id]",
	Short: "Print the SVG path strings of one or all metrics",
	Long: `Generate the SVG path data of the baseline and current series.

Every series is scaled against the larger of the two series' maxima so both
lines share one vertical scale. Paths start with a move command followed by
one line command per remaining point.

Examples:
  # Paths of every metric at the default 500x280 viewport
  metricsgraph paths

  # Current series of one metric at a custom viewport
  metricsgraph paths time --series current --width 800 --height 400

  # Export projected points for analysis
  metricsgraph paths --output parquet --output-file points.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(rootCtx, core.ExecutePaths, "Cannot generate paths")
	},
}

// renderCmd renders one chart as an image.
var renderCmd = &cobra.Command{
	Use:   "render [id]",
	Short: "Render a chart as SVG or PNG",
	Long: `Render the full chart of one metric: grid, index labels, both series,
data points, the final value callout and a legend.

SVG output carries the entry animation unless --animation is 0.

Examples:
  # Animated SVG of the first metric to stdout
  metricsgraph render

  # PNG of the accuracy chart
  metricsgraph render accuracy --format png --output-file accuracy.png`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(rootCtx, core.ExecuteRender, "Cannot render chart")
	},
}
