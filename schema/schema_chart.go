package schema

import "time"

// ProjectedPoint is a data point scaled into viewport coordinates.
type ProjectedPoint struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

// ChartLabel is an index label drawn under the plot.
type ChartLabel struct {
	X    float64 `json:"x"`
	Text string  `json:"text"`
}

// Callout is the highlighted final value of the current series.
type Callout struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Chart bundles every drawing element of one dataset at one geometry.
type Chart struct {
	MetricID       string           `json:"metric_id"`
	Title          string           `json:"title"`
	Subtitle       string           `json:"subtitle"`
	BaselineLabel  string           `json:"baseline_label"`
	CurrentLabel   string           `json:"current_label"`
	Unit           string           `json:"unit"`
	Geometry       Geometry         `json:"geometry"`
	MaxValue       float64          `json:"max_value"`
	BaselinePath   string           `json:"baseline_path"`
	CurrentPath    string           `json:"current_path"`
	BaselinePoints []ProjectedPoint `json:"baseline_points"`
	CurrentPoints  []ProjectedPoint `json:"current_points"`
	GridLines      []float64        `json:"grid_lines"`
	Labels         []ChartLabel     `json:"labels"`
	Callout        Callout          `json:"callout"`
}

// MetricPaths is the pair of path strings for one dataset.
type MetricPaths struct {
	MetricID     string `json:"metric_id"`
	BaselinePath string `json:"baseline_path"`
	CurrentPath  string `json:"current_path"`
}

// Transition describes one change of the active metric.
type Transition struct {
	Seq   uint64          `json:"seq"`
	From  string          `json:"from"`
	To    string          `json:"to"`
	Cause TransitionCause `json:"cause"`
	At    time.Time       `json:"at"`
}
