package contract

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/metricsgraph/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultListen    = ":8080"
	DefaultLogLevel  = "info"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every rendering surface.
// This struct remains the "final, validated" config.
type Config struct {
	Geometry      schema.Geometry
	Interval      time.Duration
	InitialMetric string
	DatasetsFile  string
	ResetOnSelect bool
	Animation     time.Duration

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	Series     schema.Series
	Format     schema.ChartFormat

	Listen   string
	LogLevel zapcore.Level

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	SessionBackend   schema.DatabaseBackend
	SessionDBConnect string // Please use env var as this is plaintext

	// Registry is the validated dataset registry for this process.
	Registry MetricRegistry

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	MetricArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Width            float64 `mapstructure:"width"`
	Height           float64 `mapstructure:"height"`
	Padding          float64 `mapstructure:"padding"`
	Interval         string  `mapstructure:"interval"`
	Metric           string  `mapstructure:"metric"`
	Datasets         string  `mapstructure:"datasets"`
	ResetOnSelect    bool    `mapstructure:"reset-on-select"`
	Animation        string  `mapstructure:"animation"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	Color            string  `mapstructure:"color"`
	WidthOverride    int     `mapstructure:"width-override"`
	Series           string  `mapstructure:"series"`
	Format           string  `mapstructure:"format"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	SessionBackend   string  `mapstructure:"session-backend"`
	SessionDBConnect string  `mapstructure:"session-db-connect"`

	// --- Fields from serveCmd.Flags() ---
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log-level"`

	// --- Inline datasets from config file ---
	Catalog []schema.MetricDataset `mapstructure:"catalog"`
}

// Clone returns a copy of the Config struct.
// The registry is shared since it is immutable.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithGeometry creates a copy of the Config with a different viewport.
func (c *Config) CloneWithGeometry(g schema.Geometry) *Config {
	clone := c.Clone()
	clone.Geometry = g
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, loader RegistryLoader, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGeometry(cfg, input); err != nil {
		return err
	}
	if err := processTiming(cfg, input); err != nil {
		return err
	}
	if err := processServeMode(cfg, input); err != nil {
		return err
	}
	if err := resolveRegistryAndMetric(cfg, loader, input); err != nil {
		return err
	}
	return nil
}

// ValidateGeometry checks a viewport independently of any dataset.
// The point count is checked later by the path generator.
func ValidateGeometry(g schema.Geometry) error {
	fail := func(reason string) error {
		return &schema.InvalidGeometryError{Width: g.Width, Height: g.Height, Padding: g.Padding, Reason: reason}
	}
	for _, v := range []float64{g.Width, g.Height, g.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("dimensions must be finite")
		}
	}
	switch {
	case g.Width <= 0:
		return fail("width must be greater than 0")
	case g.Height <= 0:
		return fail("height must be greater than 0")
	case g.Padding < 0:
		return fail("padding cannot be negative")
	case g.GraphWidth() <= 0:
		return fail("padding leaves no horizontal room")
	case g.GraphHeight() <= 0:
		return fail("padding leaves no vertical room")
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and session backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Session Backend Validation ---
	cfg.SessionBackend = schema.DatabaseBackend(strings.ToLower(input.SessionBackend))
	if cfg.SessionBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SessionBackend]; !ok {
		return fmt.Errorf("invalid session backend '%s'. must be sqlite, mysql, postgresql, none", input.SessionBackend)
	}
	cfg.SessionDBConnect = input.SessionDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SessionBackend, cfg.SessionDBConnect); err != nil {
		return err
	}

	// Cache and sessions live in different sqlite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.SessionBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		sessionPath := cfg.SessionDBConnect
		if sessionPath == "" {
			sessionPath = GetSessionDBFilePath()
		}
		if cachePath == sessionPath {
			return fmt.Errorf("cache and session storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.WidthOverride
	cfg.ResetOnSelect = input.ResetOnSelect
	cfg.DatasetsFile = strings.TrimSpace(input.Datasets)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	series, ok := schema.ParseSeries(input.Series)
	if input.Series == "" {
		series, ok = schema.BothSeries, true
	}
	if !ok {
		return fmt.Errorf("invalid series '%s'. must be both, baseline, current", input.Series)
	}
	cfg.Series = series

	cfg.Format = schema.ChartFormat(strings.ToLower(input.Format))
	if cfg.Format == "" {
		cfg.Format = schema.SVGFormat
	}
	if _, ok := schema.ValidChartFormats[cfg.Format]; !ok {
		return fmt.Errorf("invalid chart format '%s'. must be svg, png", input.Format)
	}

	return validateBackendConfigs(cfg, input)
}

// processGeometry validates the viewport at config time.
func processGeometry(cfg *Config, input *ConfigRawInput) error {
	g := schema.Geometry{Width: input.Width, Height: input.Height, Padding: input.Padding}
	if err := ValidateGeometry(g); err != nil {
		return fmt.Errorf("invalid viewport: %w", err)
	}
	cfg.Geometry = g
	return nil
}

// processTiming parses the cycle interval and animation duration.
func processTiming(cfg *Config, input *ConfigRawInput) error {
	interval, err := ParseDurationDefault(input.Interval, schema.DefaultCycleInterval)
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be greater than 0 (received %s)", interval)
	}
	cfg.Interval = interval

	animation, err := ParseDurationDefault(input.Animation, schema.DefaultAnimation)
	if err != nil {
		return fmt.Errorf("invalid animation: %w", err)
	}
	if animation < 0 {
		return fmt.Errorf("animation cannot be negative (received %s)", animation)
	}
	cfg.Animation = animation
	return nil
}

// processServeMode handles the listen address and log level.
func processServeMode(cfg *Config, input *ConfigRawInput) error {
	cfg.Listen = strings.TrimSpace(input.Listen)
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}

	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = DefaultLogLevel
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}
	cfg.LogLevel = level
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveRegistryAndMetric loads the registry and validates the initial metric against it.
// A positional metric argument takes precedence over the --metric flag.
func resolveRegistryAndMetric(cfg *Config, loader RegistryLoader, input *ConfigRawInput) error {
	if loader == nil {
		return errors.New("no registry loader configured")
	}
	registry, err := loader.Load(cfg.DatasetsFile, input.Catalog)
	if err != nil {
		return fmt.Errorf("cannot load datasets: %w", err)
	}
	cfg.Registry = registry

	metric := strings.TrimSpace(input.MetricArg)
	if metric == "" {
		metric = strings.TrimSpace(input.Metric)
	}
	if metric != "" {
		if _, err := registry.Get(metric); err != nil {
			return err
		}
	}
	cfg.InitialMetric = metric
	return nil
}
