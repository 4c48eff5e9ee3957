package cmd

import (
	"github.com/huangsam/metricsgraph/internal/server"
	"github.com/huangsam/metricsgraph/internal/tui"
	"github.com/spf13/cobra"
)

// watchCmd runs the interactive terminal viewer.
var watchCmd = &cobra.Command{
	Use:   "watch [id]",
	Short: "Cycle through metric charts in the terminal",
	Long: `Open a terminal view that shows one metric chart at a time and advances
to the next metric every --interval.

Keys:
  1-9      select a metric directly
  ←/h →/l  previous and next metric
  p        show the raw path strings
  ?        toggle help
  q        quit

A manual selection does not restart the timer unless --reset-on-select is set.
When a session backend is configured, every viewing session and its
transitions are recorded.

Examples:
  # Cycle every 5 seconds starting with the first metric
  metricsgraph watch

  # Start on accuracy and cycle every 2 seconds
  metricsgraph watch accuracy --interval 2s`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signalContext()
		defer stop()
		runExecutor(ctx, tui.Execute, "Watch failed")
	},
}

// serveCmd runs the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve charts, paths and a live transition stream over HTTP",
	Long: `Start an HTTP server with the chart surfaces.

Routes:
  GET /                        chart page with the metric selector (?metric=id)
  GET /charts/{id}.svg         rendered SVG (width, height, padding query params)
  GET /charts/{id}.png         rendered PNG
  GET /api/metrics             dataset listing
  GET /api/metrics/{id}        one dataset
  GET /api/metrics/{id}/paths  path strings (series, width, height, padding)
  GET /api/stream              server-sent transitions of a per-connection cycle
  POST /api/stream/{session}/select?metric=id
                               manual selection on an open stream
  GET /metrics                 Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.

Examples:
  # Serve on the default address
  metricsgraph serve

  # Serve on another port with debug logs
  metricsgraph serve --listen :9090 --log-level debug`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signalContext()
		defer stop()
		runExecutor(ctx, server.Execute, "Server failed")
	},
}
