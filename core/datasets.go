package core

import "github.com/huangsam/metricsgraph/schema"

// weekly builds six weekly points from parallel value lists.
func weekly(baseline, current []float64) []schema.TimeSeriesPoint {
	points := make([]schema.TimeSeriesPoint, len(current))
	for i := range current {
		points[i] = schema.TimeSeriesPoint{Index: i + 1, Baseline: baseline[i], Current: current[i]}
	}
	return points
}

// BuiltinDatasets returns the datasets shipped with the binary, in cycling order.
func BuiltinDatasets() []schema.MetricDataset {
	return []schema.MetricDataset{
		{
			ID:            "time",
			Title:         "Hours Saved Per Week",
			Subtitle:      "Before vs After Implementation",
			BaselineLabel: "Manual Process",
			CurrentLabel:  "With AI System",
			Unit:          "hrs",
			Points:        weekly([]float64{2, 2, 2, 2, 2, 2}, []float64{2, 5, 8, 11, 13, 15}),
		},
		{
			ID:            "accuracy",
			Title:         "Output Accuracy Rate",
			Subtitle:      "Error reduction over time",
			BaselineLabel: "Human Only",
			CurrentLabel:  "AI-Assisted",
			Unit:          "%",
			Points:        weekly([]float64{72, 72, 72, 72, 72, 72}, []float64{72, 82, 89, 93, 95, 97}),
		},
		{
			ID:            "adoption",
			Title:         "Team Adoption Rate",
			Subtitle:      "Active users engagement",
			BaselineLabel: "Baseline",
			CurrentLabel:  "Active Users",
			Unit:          "users",
			Points:        weekly([]float64{0, 0, 0, 0, 0, 0}, []float64{15, 32, 45, 52, 55, 58}),
		},
	}
}

// DefaultRegistry returns a registry of the built-in datasets.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinDatasets()...)
	if err != nil {
		panic(err) // built-ins are static
	}
	return r
}
