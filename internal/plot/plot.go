// Package plot renders charts as PNG images.
package plot

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/huangsam/metricsgraph/schema"
)

var (
	baselineColor = drawing.ColorFromHex("8c959f")
	currentColor  = drawing.ColorFromHex("0969da")
)

// seriesOf converts projected points back into raw index/value pairs.
func seriesOf(name string, points []schema.ProjectedPoint, style chart.Style) chart.ContinuousSeries {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Index)
		ys[i] = p.Value
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

// Build returns the go-chart model of a chart. The y axis starts at zero and
// ends at the dataset maximum so the raster matches the vector scaling.
func Build(c schema.Chart) chart.Chart {
	maxY := c.MaxValue
	if maxY <= 0 {
		maxY = 1
	}

	ticks := make([]chart.Tick, len(c.CurrentPoints))
	for i, p := range c.CurrentPoints {
		ticks[i] = chart.Tick{Value: float64(p.Index), Label: schema.IndexLabel(p.Index)}
	}

	baseline := seriesOf(c.BaselineLabel, c.BaselinePoints, chart.Style{
		StrokeColor:     baselineColor,
		StrokeWidth:     2,
		StrokeDashArray: []float64{6, 6},
	})
	current := seriesOf(c.CurrentLabel, c.CurrentPoints, chart.Style{
		StrokeColor: currentColor,
		StrokeWidth: 3,
		DotWidth:    4,
		DotColor:    currentColor,
	})

	pad := int(c.Geometry.Padding)
	ch := chart.Chart{
		Title:      c.Title,
		Width:      int(c.Geometry.Width),
		Height:     int(c.Geometry.Height),
		Background: chart.Style{Padding: chart.Box{Top: pad, Left: pad / 2, Right: pad / 2, Bottom: pad / 2}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Name:           c.Unit,
			Range:          &chart.ContinuousRange{Min: 0, Max: maxY},
			ValueFormatter: func(v any) string { return formatTick(v, c.Unit) },
		},
		Series: []chart.Series{baseline, current},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// RenderPNG writes c as a PNG image to w.
func RenderPNG(w io.Writer, c schema.Chart) error {
	if len(c.CurrentPoints) < 2 || len(c.BaselinePoints) < 2 {
		return fmt.Errorf("chart %s has too few points to plot", c.MetricID)
	}
	ch := Build(c)
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render PNG for %s: %w", c.MetricID, err)
	}
	return nil
}

func formatTick(v any, unit string) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return schema.FormatValue(math.Round(f*10)/10, unit)
}
