// Package parquet provides data structures and functions for exporting chart
// and session data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/metricsgraph/schema"
	"github.com/parquet-go/parquet-go"
)

// PathPoint is one projected point of a generated path.
type PathPoint struct {
	// MetricID is the dataset the point belongs to
	MetricID string `parquet:"metric_id,snappy"`

	// Series is either baseline or current
	Series string `parquet:"series,snappy"`

	// Index is the ordinal position of the source point, e.g. week number
	Index int32 `parquet:"index,snappy"`

	// X and Y are viewport coordinates
	X float64 `parquet:"x,snappy"`
	Y float64 `parquet:"y,snappy"`

	// Value is the raw data value
	Value float64 `parquet:"value,snappy"`

	// Width, Height and Padding describe the viewport used for projection
	Width   float64 `parquet:"width,snappy"`
	Height  float64 `parquet:"height,snappy"`
	Padding float64 `parquet:"padding,snappy"`
}

// Session represents one mounted controller.
// This struct maps to the metricsgraph_sessions database table.
type Session struct {
	SessionID     string     `parquet:"session_id,snappy"`
	Surface       string     `parquet:"surface,snappy"`
	StartedAt     time.Time  `parquet:"started_at,snappy"`
	EndedAt       *time.Time `parquet:"ended_at,optional,snappy"`
	InitialMetric string     `parquet:"initial_metric,snappy"`
	Transitions   int32      `parquet:"transitions,snappy"`
}

// Transition represents one change of the active metric.
// This struct maps to the metricsgraph_transitions database table.
type Transition struct {
	SessionID  string    `parquet:"session_id,snappy"`
	Seq        int64     `parquet:"seq,snappy"`
	FromMetric string    `parquet:"from_metric,optional,snappy"`
	ToMetric   string    `parquet:"to_metric,snappy"`
	Cause      string    `parquet:"cause,snappy"`
	At         time.Time `parquet:"at,snappy"`
}

// writeRows encodes rows with a schema inferred from the struct tags.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, data)
}

// WritePathPoints writes path rows to w.
func WritePathPoints(w io.Writer, data []PathPoint) error {
	return writeRows(w, data)
}

// WriteSessionsParquet writes a slice of Session structs to a Parquet file.
func WriteSessionsParquet(data []Session, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTransitionsParquet writes a slice of Transition structs to a Parquet file.
func WriteTransitionsParquet(data []Transition, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertChart flattens both series of a chart into path rows.
func ConvertChart(chart schema.Chart) []PathPoint {
	rows := make([]PathPoint, 0, len(chart.BaselinePoints)+len(chart.CurrentPoints))
	add := func(series schema.Series, points []schema.ProjectedPoint) {
		for _, p := range points {
			rows = append(rows, PathPoint{
				MetricID: chart.MetricID,
				Series:   string(series),
				Index:    int32(p.Index),
				X:        p.X,
				Y:        p.Y,
				Value:    p.Value,
				Width:    chart.Geometry.Width,
				Height:   chart.Geometry.Height,
				Padding:  chart.Geometry.Padding,
			})
		}
	}
	add(schema.BaselineSeries, chart.BaselinePoints)
	add(schema.CurrentSeries, chart.CurrentPoints)
	return rows
}

// ConvertSessionRecords converts store rows to Parquet rows.
func ConvertSessionRecords(records []schema.SessionRecord) []Session {
	result := make([]Session, len(records))
	for i, r := range records {
		result[i] = Session(r)
	}
	return result
}

// ConvertTransitionRecords converts store rows to Parquet rows.
func ConvertTransitionRecords(records []schema.TransitionRecord) []Transition {
	result := make([]Transition, len(records))
	for i, r := range records {
		result[i] = Transition(r)
	}
	return result
}
