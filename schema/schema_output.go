package schema

// MetricSummary is the listing row for one dataset.
type MetricSummary struct {
	Order         int     `json:"order"` // 1-based position in cycling order
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle"`
	Unit          string  `json:"unit"`
	Points        int     `json:"points"`
	FinalBaseline float64 `json:"final_baseline"`
	FinalCurrent  float64 `json:"final_current"`
	Trend         string  `json:"trend"`
}

// GetTrendLabel returns a plain text label describing how the current series
// ended relative to the baseline.
func GetTrendLabel(baseline, current float64) string {
	switch {
	case current > baseline:
		return "Up"
	case current < baseline:
		return "Down"
	default:
		return "Flat"
	}
}

// SummarizeDatasets adds cycling order and trend to a list of datasets.
func SummarizeDatasets(datasets []MetricDataset) []MetricSummary {
	output := make([]MetricSummary, len(datasets))
	for i, d := range datasets {
		s := MetricSummary{
			Order:    i + 1,
			ID:       d.ID,
			Title:    d.Title,
			Subtitle: d.Subtitle,
			Unit:     d.Unit,
			Points:   len(d.Points),
		}
		if len(d.Points) > 0 {
			last := d.Last()
			s.FinalBaseline = last.Baseline
			s.FinalCurrent = last.Current
			s.Trend = GetTrendLabel(last.Baseline, last.Current)
		}
		output[i] = s
	}
	return output
}
