package schema

import "fmt"

// InvalidGeometryError reports a viewport or point set that cannot be plotted.
// Callers should fall back to a placeholder rather than render partially.
type InvalidGeometryError struct {
	Width   float64
	Height  float64
	Padding float64
	Points  int
	Reason  string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry %gx%g padding %g with %d points: %s",
		e.Width, e.Height, e.Padding, e.Points, e.Reason)
}

// UnknownMetricError reports a metric id that is absent from the registry.
type UnknownMetricError struct {
	ID string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.ID)
}

// InvalidDatasetError reports a dataset that violates a registry invariant.
type InvalidDatasetError struct {
	ID     string
	Reason string
}

func (e *InvalidDatasetError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid dataset: %s", e.Reason)
	}
	return fmt.Sprintf("invalid dataset %q: %s", e.ID, e.Reason)
}
