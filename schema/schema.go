// Package schema has configs, models and global variables for all parts of metricsgraph.
package schema

// TimeSeriesPoint is one ordinal sample of a dataset.
// Baseline and Current share units within one dataset.
type TimeSeriesPoint struct {
	Index    int     `json:"index" yaml:"index" mapstructure:"index"`          // Ordinal position, e.g. week number
	Baseline float64 `json:"baseline" yaml:"baseline" mapstructure:"baseline"` // "Before" / reference value
	Current  float64 `json:"current" yaml:"current" mapstructure:"current"`    // "After" / live value
}

// Value returns the value of the selected series.
func (p TimeSeriesPoint) Value(series Series) float64 {
	if series == BaselineSeries {
		return p.Baseline
	}
	return p.Current
}

// MetricDataset is a named time series pair with display metadata.
type MetricDataset struct {
	ID            string            `json:"id" yaml:"id" mapstructure:"id"`
	Title         string            `json:"title" yaml:"title" mapstructure:"title"`
	Subtitle      string            `json:"subtitle" yaml:"subtitle" mapstructure:"subtitle"`
	BaselineLabel string            `json:"baseline_label" yaml:"baseline_label" mapstructure:"baseline_label"`
	CurrentLabel  string            `json:"current_label" yaml:"current_label" mapstructure:"current_label"`
	Unit          string            `json:"unit" yaml:"unit" mapstructure:"unit"`
	Points        []TimeSeriesPoint `json:"points" yaml:"points" mapstructure:"points"`
}

// Last returns the final point of the dataset.
// Callers must only use it on validated datasets.
func (d MetricDataset) Last() TimeSeriesPoint {
	return d.Points[len(d.Points)-1]
}

// Geometry holds the pixel dimensions and padding used to scale data
// into drawable coordinates.
type Geometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// GraphWidth is the horizontal plotting area inside the padding.
func (g Geometry) GraphWidth() float64 {
	return g.Width - 2*g.Padding
}

// GraphHeight is the vertical plotting area inside the padding.
func (g Geometry) GraphHeight() float64 {
	return g.Height - 2*g.Padding
}

// Bottom is the y coordinate of a zero value.
func (g Geometry) Bottom() float64 {
	return g.Padding + g.GraphHeight()
}
