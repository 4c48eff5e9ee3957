// Package cmd defines the command-line interface for metricsgraph.
package cmd

import (
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(sessionsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the sessions subcommands to the parent sessions command
	sessionsCmd.AddCommand(sessionsClearCmd)
	sessionsCmd.AddCommand(sessionsStatusCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64("width", schema.DefaultWidth, "Chart viewport width in pixels")
	rootCmd.PersistentFlags().Float64("height", schema.DefaultHeight, "Chart viewport height in pixels")
	rootCmd.PersistentFlags().Float64("padding", schema.DefaultPadding, "Chart padding on every side in pixels")
	rootCmd.PersistentFlags().String("interval", schema.DefaultCycleInterval.String(), "Automatic cycle interval (e.g. 5s)")
	rootCmd.PersistentFlags().StringP("metric", "m", "", "Initial metric id (defaults to the first registered metric)")
	rootCmd.PersistentFlags().String("datasets", "", "Path to a YAML file of extra datasets")
	rootCmd.PersistentFlags().Bool("reset-on-select", false, "Restart the cycle timer after a manual selection")
	rootCmd.PersistentFlags().String("animation", schema.DefaultAnimation.String(), "Entry animation duration of the current series (0 disables it)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width-override", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("session-backend", "", "Session history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("session-db-connect", "", "Database connection string for session history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of pathsCmd to Viper
	pathsCmd.Flags().String("series", string(schema.BothSeries), "Series to print: both or baseline or current")
	if err := viper.BindPFlags(pathsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding paths flags", err)
	}

	// Bind all flags of renderCmd to Viper
	renderCmd.Flags().String("format", string(schema.SVGFormat), "Image format: svg or png")
	if err := viper.BindPFlags(renderCmd.Flags()); err != nil {
		contract.LogFatal("Error binding render flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListen, "Address to listen on")
	serveCmd.Flags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of sessionsMigrateCmd to Viper
	sessionsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sessionsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sessions migrate flags", err)
	}
}
