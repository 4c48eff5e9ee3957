package cmd

import (
	"fmt"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/iocache"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sessionBackendFromConfig reads the session backend, treating an empty value as disabled.
func sessionBackendFromConfig() (schema.DatabaseBackend, string, error) {
	backendStr := viper.GetString("session-backend")
	connStr := viper.GetString("session-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// sessionsSetup loads minimal configuration needed for session history operations.
func sessionsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := sessionBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no chart cache for session commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	cfg.SessionBackend = backend
	cfg.SessionDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// sessionsSetupWrapper wraps sessionsSetup to provide PreRunE for session commands.
func sessionsSetupWrapper(_ *cobra.Command, _ []string) error {
	return sessionsSetup()
}

// sessionsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func sessionsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := sessionBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetSessionDBFilePath()
	}

	cfg.SessionBackend = backend
	cfg.SessionDBConnect = connStr
	return nil
}

// sessionsMigrateSetupWrapper wraps sessionsMigrateSetup to provide PreRunE for migrate command.
func sessionsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return sessionsMigrateSetup()
}

// sessionsCmd focused on viewing session history.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the history of viewing sessions",
	Long: `Manage the recorded history of viewing sessions.

When --session-backend is set, every mounted cycle is recorded:
- One session per terminal view or stream connection
- Every transition with its sequence number and cause (auto or manual)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show session history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all session history
  migrate - Run database schema migrations

Examples:
  # Check session history
  metricsgraph sessions status --session-backend sqlite

  # Export for analysis in pandas/DuckDB
  metricsgraph sessions export --session-backend sqlite --output-file sessions`,
}

// sessionsClearCmd clears the session history.
var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded viewing sessions",
	Long: `Delete all recorded sessions and their transitions.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  metricsgraph sessions export --output-file backup
  metricsgraph sessions clear`,
	PreRunE: sessionsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearSessions(cfg.SessionBackend, contract.GetSessionDBFilePath(), cfg.SessionDBConnect); err != nil {
			contract.LogFatal("Failed to clear session history", err)
		}
		fmt.Println("Session history cleared successfully.")
	},
}

// sessionsStatusCmd shows session history status.
var sessionsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display session history statistics and connection details",
	Long: `Show detailed information about the recorded viewing sessions.

Displays:
- Backend type and connection status
- Total number of sessions and transitions
- Last and oldest session timestamps
- Row counts per table

Examples:
  # Check session history status
  metricsgraph sessions status`,
	PreRunE: sessionsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSessionStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get session status", err)
		}
		iocache.PrintSessionStatus(status)
	},
}

// sessionsExportCmd exports session history to Parquet files.
var sessionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history to Parquet for BI tools and analytics",
	Long: `Export all recorded sessions and transitions to Parquet format.

Writes two files next to each other:
- <output-file>.sessions.parquet
- <output-file>.transitions.parquet

Requires: --output-file parameter

Examples:
  # Export all data
  metricsgraph sessions export --output-file history

  # Use with DuckDB
  duckdb -c "SELECT to_metric, count(*) FROM read_parquet('history.transitions.parquet') GROUP BY 1"`,
	PreRunE: sessionsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteSessionExport(iocache.Manager.GetSessionStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export session history", err)
		}
	},
}

// sessionsMigrateCmd runs database migrations for the session store.
var sessionsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the session store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  metricsgraph sessions migrate --session-backend sqlite

  # Roll back to the initial state
  metricsgraph sessions migrate --session-backend sqlite --target-version 0`,
	PreRunE: sessionsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSessions(cfg.SessionBackend, cfg.SessionDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
