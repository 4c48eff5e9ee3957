package core

import (
	"fmt"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// BuildChart computes every drawing element of a dataset at the given geometry.
func BuildChart(d schema.MetricDataset, g schema.Geometry) (schema.Chart, error) {
	if err := checkPlottable(d.Points, g); err != nil {
		return schema.Chart{}, fmt.Errorf("chart for %s: %w", d.ID, err)
	}

	maxValue := MaxValue(d.Points)
	baseline := project(d.Points, schema.BaselineSeries, g, maxValue)
	current := project(d.Points, schema.CurrentSeries, g, maxValue)

	labels := make([]schema.ChartLabel, len(current))
	for i, p := range current {
		labels[i] = schema.ChartLabel{X: p.X, Text: schema.IndexLabel(p.Index)}
	}

	last := current[len(current)-1]
	return schema.Chart{
		MetricID:       d.ID,
		Title:          d.Title,
		Subtitle:       d.Subtitle,
		BaselineLabel:  d.BaselineLabel,
		CurrentLabel:   d.CurrentLabel,
		Unit:           d.Unit,
		Geometry:       g,
		MaxValue:       maxValue,
		BaselinePath:   pathString(baseline),
		CurrentPath:    pathString(current),
		BaselinePoints: baseline,
		CurrentPoints:  current,
		GridLines:      GridLines(g, schema.DefaultGridLines),
		Labels:         labels,
		Callout:        schema.Callout{X: last.X, Y: last.Y, Text: schema.FormatValue(last.Value, d.Unit)},
	}, nil
}

// GridLines returns n evenly spaced horizontal line positions from the top
// of the plot to its bottom.
func GridLines(g schema.Geometry, n int) []float64 {
	if n < 2 {
		return []float64{g.Bottom()}
	}
	step := g.GraphHeight() / float64(n-1)
	lines := make([]float64, n)
	for i := range lines {
		lines[i] = g.Padding + float64(i)*step
	}
	return lines
}

// ChartFor looks up a dataset and builds its chart.
func ChartFor(reg contract.MetricRegistry, id string, g schema.Geometry) (schema.Chart, error) {
	d, err := reg.Get(id)
	if err != nil {
		return schema.Chart{}, err
	}
	return BuildChart(d, g)
}
