package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// MaxValue returns the largest value across both series of the dataset.
// Both series share this vertical scale so they stay visually comparable.
func MaxValue(points []schema.TimeSeriesPoint) float64 {
	maxValue := 0.0
	for i, p := range points {
		m := math.Max(p.Baseline, p.Current)
		if i == 0 || m > maxValue {
			maxValue = m
		}
	}
	return maxValue
}

// checkPlottable validates geometry and point count before projection.
func checkPlottable(points []schema.TimeSeriesPoint, g schema.Geometry) error {
	if err := contract.ValidateGeometry(g); err != nil {
		var geom *schema.InvalidGeometryError
		if errors.As(err, &geom) {
			geom.Points = len(points)
		}
		return err
	}
	if len(points) < 2 {
		return &schema.InvalidGeometryError{
			Width: g.Width, Height: g.Height, Padding: g.Padding, Points: len(points),
			Reason: "at least 2 points are required to draw a line",
		}
	}
	return nil
}

// ProjectPoints scales one series into viewport coordinates.
func ProjectPoints(points []schema.TimeSeriesPoint, series schema.Series, g schema.Geometry) ([]schema.ProjectedPoint, error) {
	if _, ok := schema.ValidSeries[series]; !ok {
		return nil, fmt.Errorf("cannot project series %q", series)
	}
	if err := checkPlottable(points, g); err != nil {
		return nil, err
	}
	return project(points, series, g, MaxValue(points)), nil
}

// project assumes validated input.
func project(points []schema.TimeSeriesPoint, series schema.Series, g schema.Geometry, maxValue float64) []schema.ProjectedPoint {
	graphWidth, graphHeight := g.GraphWidth(), g.GraphHeight()
	last := float64(len(points) - 1)

	out := make([]schema.ProjectedPoint, len(points))
	for i, p := range points {
		v := p.Value(series)
		y := g.Bottom()
		if maxValue != 0 {
			y = g.Padding + graphHeight - (v/maxValue)*graphHeight
		}
		out[i] = schema.ProjectedPoint{
			Index: p.Index,
			X:     g.Padding + (float64(i)/last)*graphWidth,
			Y:     y,
			Value: v,
		}
	}
	return out
}

// GeneratePath converts one series into an SVG path of move and line commands.
// The output is deterministic and the function is safe for concurrent use.
func GeneratePath(points []schema.TimeSeriesPoint, series schema.Series, g schema.Geometry) (string, error) {
	projected, err := ProjectPoints(points, series, g)
	if err != nil {
		return "", err
	}
	return pathString(projected), nil
}

// GeneratePaths returns both path strings of a dataset.
func GeneratePaths(d schema.MetricDataset, g schema.Geometry) (schema.MetricPaths, error) {
	baseline, err := GeneratePath(d.Points, schema.BaselineSeries, g)
	if err != nil {
		return schema.MetricPaths{}, fmt.Errorf("baseline path for %s: %w", d.ID, err)
	}
	current, err := GeneratePath(d.Points, schema.CurrentSeries, g)
	if err != nil {
		return schema.MetricPaths{}, fmt.Errorf("current path for %s: %w", d.ID, err)
	}
	return schema.MetricPaths{MetricID: d.ID, BaselinePath: baseline, CurrentPath: current}, nil
}

func pathString(points []schema.ProjectedPoint) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(schema.FormatCoord(p.X))
		sb.WriteByte(' ')
		sb.WriteString(schema.FormatCoord(p.Y))
	}
	return sb.String()
}
