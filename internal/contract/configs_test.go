package contract

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// validInput returns a raw input matching the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Width:        schema.DefaultWidth,
		Height:       schema.DefaultHeight,
		Padding:      schema.DefaultPadding,
		Interval:     "5s",
		Animation:    "1.5s",
		Output:       "text",
		Precision:    DefaultPrecision,
		Color:        "yes",
		Series:       "both",
		Format:       "svg",
		CacheBackend: "sqlite",
	}
}

// registryWith returns a loader whose registry knows the given ids.
func registryWith(ids ...string) (*MockRegistryLoader, *MockRegistry) {
	reg := new(MockRegistry)
	known := map[string]bool{}
	for _, id := range ids {
		known[id] = true
	}
	reg.On("Get", mock.Anything).Return(func(id string) (schema.MetricDataset, error) {
		if known[id] {
			return schema.MetricDataset{ID: id}, nil
		}
		return schema.MetricDataset{}, &schema.UnknownMetricError{ID: id}
	}).Maybe()
	reg.On("ListIDs").Return(ids).Maybe()

	loader := new(MockRegistryLoader)
	loader.On("Load", mock.Anything, mock.Anything).Return(reg, nil)
	return loader, reg
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid defaults", mutate: func(*ConfigRawInput) {}},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet output", mutate: func(in *ConfigRawInput) { in.Output = "PARQUET" }},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 5 }, expectError: true},
		{name: "precision too low", mutate: func(in *ConfigRawInput) { in.Precision = 0 }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid series", mutate: func(in *ConfigRawInput) { in.Series = "after" }, expectError: true},
		{name: "blank series means both", mutate: func(in *ConfigRawInput) { in.Series = "" }},
		{name: "invalid format", mutate: func(in *ConfigRawInput) { in.Format = "gif" }, expectError: true},
		{name: "zero interval", mutate: func(in *ConfigRawInput) { in.Interval = "0s" }, expectError: true},
		{name: "garbage interval", mutate: func(in *ConfigRawInput) { in.Interval = "soon" }, expectError: true},
		{name: "negative animation", mutate: func(in *ConfigRawInput) { in.Animation = "-1s" }, expectError: true},
		{name: "padding too large", mutate: func(in *ConfigRawInput) { in.Padding = 140 }, expectError: true},
		{name: "negative padding", mutate: func(in *ConfigRawInput) { in.Padding = -1 }, expectError: true},
		{name: "invalid log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connect", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{
			name: "same sqlite file for cache and sessions",
			mutate: func(in *ConfigRawInput) {
				in.SessionBackend = "sqlite"
				in.CacheDBConnect = "/tmp/x.db"
				in.SessionDBConnect = "/tmp/x.db"
			},
			expectError: true,
		},
		{name: "unknown metric", mutate: func(in *ConfigRawInput) { in.Metric = "nope" }, expectError: true},
		{name: "known metric", mutate: func(in *ConfigRawInput) { in.Metric = "accuracy" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			loader, _ := registryWith("time", "accuracy", "adoption")

			cfg := &Config{}
			err := ProcessAndValidate(cfg, loader, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg.Registry)
		})
	}
}

func TestProcessAndValidateResolvedValues(t *testing.T) {
	input := validInput()
	input.Interval = "250ms"
	input.Metric = "time"
	input.MetricArg = "adoption"
	input.Series = "current"
	loader, _ := registryWith("time", "adoption")

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, loader, input))

	assert.Equal(t, schema.DefaultGeometry, cfg.Geometry)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Animation)
	assert.Equal(t, "adoption", cfg.InitialMetric, "positional argument wins over --metric")
	assert.Equal(t, schema.CurrentSeries, cfg.Series)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.DatabaseBackend(""), cfg.SessionBackend)
}

func TestProcessAndValidateUnknownMetricIsTyped(t *testing.T) {
	input := validInput()
	input.Metric = "revenue"
	loader, _ := registryWith("time")

	err := ProcessAndValidate(&Config{}, loader, input)
	var unknown *schema.UnknownMetricError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "revenue", unknown.ID)
}

func TestProcessAndValidateGeometryIsTyped(t *testing.T) {
	input := validInput()
	input.Width = 60
	loader, _ := registryWith("time")

	err := ProcessAndValidate(&Config{}, loader, input)
	var geom *schema.InvalidGeometryError
	require.True(t, errors.As(err, &geom))
	assert.Equal(t, 60.0, geom.Width)
}

func TestProcessAndValidateLoaderFailure(t *testing.T) {
	loader := new(MockRegistryLoader)
	loader.On("Load", "bad.yaml", mock.Anything).Return(nil, errors.New("boom"))

	input := validInput()
	input.Datasets = "bad.yaml"
	err := ProcessAndValidate(&Config{}, loader, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load datasets")
	loader.AssertExpectations(t)
}

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name    string
		g       schema.Geometry
		wantErr bool
	}{
		{"default", schema.DefaultGeometry, false},
		{"zero padding", schema.Geometry{Width: 10, Height: 10}, false},
		{"zero width", schema.Geometry{Height: 10}, true},
		{"zero height", schema.Geometry{Width: 10}, true},
		{"half padding", schema.Geometry{Width: 100, Height: 100, Padding: 50}, true},
		{"tall but narrow", schema.Geometry{Width: 80, Height: 400, Padding: 40}, true},
		{"nan", schema.Geometry{Width: nanValue(), Height: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeometry(tt.g)
			if tt.wantErr {
				var geom *schema.InvalidGeometryError
				assert.True(t, errors.As(err, &geom))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "dbname=db"))
}

func TestCloneWithGeometry(t *testing.T) {
	cfg := &Config{Geometry: schema.DefaultGeometry, Precision: 2}
	g := schema.Geometry{Width: 800, Height: 400, Padding: 20}
	clone := cfg.CloneWithGeometry(g)
	assert.Equal(t, g, clone.Geometry)
	assert.Equal(t, schema.DefaultGeometry, cfg.Geometry)
	assert.Equal(t, 2, clone.Precision)
}

func TestProcessProfilingConfig(t *testing.T) {
	p := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(p, ""))
	assert.False(t, p.Enabled)
	require.NoError(t, ProcessProfilingConfig(p, "run1"))
	assert.True(t, p.Enabled)
	assert.Equal(t, "run1", p.Prefix)
}
