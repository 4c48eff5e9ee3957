package schema

import "time"

// Custom string types for type safety.
type (
	// Series selects which series of a dataset to project.
	Series string

	// OutputMode represents the format of the output.
	OutputMode string

	// ChartFormat represents the image format of a rendered chart.
	ChartFormat string

	// TransitionCause explains why the active metric changed.
	TransitionCause string

	// Surface names the rendering layer that mounted a controller.
	Surface string

	// DatabaseBackend represents the database backend for caching and session history.
	DatabaseBackend string
)

// All series supported.
const (
	BaselineSeries Series = "baseline"
	CurrentSeries  Series = "current"
	BothSeries     Series = "both" // only valid as a CLI selector
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All chart formats supported.
const (
	SVGFormat ChartFormat = "svg" // default
	PNGFormat ChartFormat = "png"
)

// All transition causes.
const (
	InitialCause TransitionCause = "initial"
	AutoCause    TransitionCause = "auto"
	ManualCause  TransitionCause = "manual"
)

// All surfaces that mount a controller.
const (
	WatchSurface  Surface = "watch"
	StreamSurface Surface = "stream"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Defaults that mirror the original chart component.
const (
	DefaultWidth          = 500.0
	DefaultHeight         = 280.0
	DefaultPadding        = 40.0
	DefaultCycleInterval  = 5 * time.Second
	DefaultAnimation      = 1500 * time.Millisecond
	DefaultAnimationDelay = 300 * time.Millisecond
	DefaultGridLines      = 5
)

// DefaultGeometry is the viewport used when the caller supplies none.
var DefaultGeometry = Geometry{Width: DefaultWidth, Height: DefaultHeight, Padding: DefaultPadding}

// ValidSeries lists the series a path can be generated for.
var ValidSeries = map[Series]struct{}{
	BaselineSeries: {},
	CurrentSeries:  {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidChartFormats lists all valid chart formats.
var ValidChartFormats = map[ChartFormat]struct{}{
	SVGFormat: {},
	PNGFormat: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
