// Package svg renders charts as standalone SVG documents.
package svg

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/metricsgraph/schema"
)

// Options controls presentation details of a rendered chart.
type Options struct {
	// Animation is how long the current series takes to draw. Zero renders a static chart.
	Animation time.Duration
}

// legendSwatch is the width of a legend line sample.
const legendSwatch = 18

var funcs = template.FuncMap{
	"coord":   schema.FormatCoord,
	"half":    func(v float64) string { return schema.FormatCoord(v / 2) },
	"minus":   func(a, b float64) string { return schema.FormatCoord(a - b) },
	"seconds": seconds,
}

var chartTemplate = template.Must(template.New("chart").Funcs(funcs).Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{ coord .Chart.Geometry.Width }} {{ coord .Chart.Geometry.Height }}" width="{{ coord .Chart.Geometry.Width }}" height="{{ coord .Chart.Geometry.Height }}" role="img" data-metric="{{ .Chart.MetricID }}">
<title>{{ .Chart.Title }}</title>
<desc>{{ .Chart.Subtitle }}</desc>
<style>
.grid { stroke: #d0d7de; stroke-width: 1; }
.label { font: 11px sans-serif; fill: #57606a; }
.legend { font: 12px sans-serif; fill: #24292f; }
.baseline { fill: none; stroke: #8c959f; stroke-width: 2; }
.current { fill: none; stroke: #0969da; stroke-width: 3; }
.swatch-baseline { stroke: #8c959f; stroke-width: 2; }
.swatch-current { stroke: #0969da; stroke-width: 3; }
.point { fill: #0969da; }
.callout { font: bold 13px sans-serif; fill: #0969da; }
{{- if .Animated }}
.current { stroke-dasharray: 1; stroke-dashoffset: 1; animation: draw {{ seconds .Current.Duration }} cubic-bezier(0.33, 1, 0.68, 1) {{ seconds .Current.Delay }} forwards; }
.baseline { opacity: 0; animation: fade {{ seconds .Baseline.Duration }} ease-out {{ seconds .Baseline.Delay }} forwards; }
.point, .callout { opacity: 0; animation: fade 0.3s ease-out {{ seconds .Current.Total }} forwards; }
@keyframes draw { to { stroke-dashoffset: 0; } }
@keyframes fade { to { opacity: 1; } }
{{- end }}
</style>
{{- $g := .Chart.Geometry }}
{{- range .Chart.GridLines }}
<line class="grid" x1="{{ coord $g.Padding }}" y1="{{ coord . }}" x2="{{ minus $g.Width $g.Padding }}" y2="{{ coord . }}" stroke-dasharray="4 4"/>
{{- end }}
{{- $labelY := .LabelY }}
{{- range .Chart.Labels }}
<text class="label" x="{{ coord .X }}" y="{{ $labelY }}" text-anchor="middle">{{ .Text }}</text>
{{- end }}
<path class="baseline" d="{{ .Chart.BaselinePath }}" stroke-dasharray="6 6"/>
<path class="current" d="{{ .Chart.CurrentPath }}" pathLength="1"/>
{{- range .Chart.CurrentPoints }}
<circle class="point" cx="{{ coord .X }}" cy="{{ coord .Y }}" r="4"/>
{{- end }}
<text class="callout" x="{{ coord .Chart.Callout.X }}" y="{{ minus .Chart.Callout.Y 10 }}" text-anchor="end">{{ .Chart.Callout.Text }}</text>
<g class="legend" transform="translate({{ coord $g.Padding }} {{ half $g.Padding }})">
<line class="swatch-baseline" x1="0" y1="-4" x2="{{ .Swatch }}" y2="-4" stroke-dasharray="6 6"/>
<text x="{{ .SwatchText }}" y="0">{{ .Chart.BaselineLabel }}</text>
<line class="swatch-current" x1="{{ .SecondSwatch }}" y1="-4" x2="{{ .SecondSwatchEnd }}" y2="-4"/>
<text x="{{ .SecondSwatchText }}" y="0">{{ .Chart.CurrentLabel }}</text>
</g>
</svg>
`))

var placeholderTemplate = template.Must(template.New("placeholder").Funcs(funcs).Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{ coord .Width }} {{ coord .Height }}" width="{{ coord .Width }}" height="{{ coord .Height }}" role="img">
<title>Chart unavailable</title>
<rect x="0" y="0" width="{{ coord .Width }}" height="{{ coord .Height }}" fill="#f6f8fa"/>
<text x="{{ half .Width }}" y="{{ half .Height }}" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#57606a">{{ .Message }}</text>
</svg>
`))

// chartView is the template model of one chart.
type chartView struct {
	Chart    schema.Chart
	Animated bool
	Current  schema.Animation
	Baseline schema.Animation
	LabelY   string

	Swatch, SwatchText                             string
	SecondSwatch, SecondSwatchEnd, SecondSwatchText string
}

// Render writes chart as an SVG document to w.
func Render(w io.Writer, chart schema.Chart, opts Options) error {
	g := chart.Geometry

	current := schema.CurrentAnimation
	current.Duration = opts.Animation

	// Legend entries are laid out left to right with a rough per-character advance.
	second := float64(legendSwatch) + 6 + float64(len(chart.BaselineLabel))*7 + 16

	view := chartView{
		Chart:            chart,
		Animated:         opts.Animation > 0,
		Current:          current,
		Baseline:         schema.BaselineAnimation,
		LabelY:           schema.FormatCoord(g.Height - g.Padding/2 + 4),
		Swatch:           strconv.Itoa(legendSwatch),
		SwatchText:       strconv.Itoa(legendSwatch + 6),
		SecondSwatch:     schema.FormatCoord(second),
		SecondSwatchEnd:  schema.FormatCoord(second + legendSwatch),
		SecondSwatchText: schema.FormatCoord(second + legendSwatch + 6),
	}
	if err := chartTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render SVG for %s: %w", chart.MetricID, err)
	}
	return nil
}

// RenderString renders chart to a string, ready for inline embedding.
func RenderString(chart schema.Chart, opts Options) (template.HTML, error) {
	var buf bytes.Buffer
	if err := Render(&buf, chart, opts); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Placeholder writes a neutral SVG of the given size carrying message.
// It is shown in place of a chart that cannot be drawn.
func Placeholder(w io.Writer, width, height float64, message string) error {
	if width <= 0 || height <= 0 {
		width, height = schema.DefaultWidth, schema.DefaultHeight
	}
	return placeholderTemplate.Execute(w, struct {
		Width, Height float64
		Message       string
	}{width, height, message})
}

// seconds formats a duration as a CSS time value.
func seconds(d time.Duration) template.CSS {
	return template.CSS(strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s")
}
