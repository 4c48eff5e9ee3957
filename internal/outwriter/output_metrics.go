package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintMetrics lists every dataset of the registry, dispatching based on the output format configured.
// The active metric is highlighted in table output.
func PrintMetrics(datasets []schema.MetricDataset, active string, cfg *contract.Config) error {
	summaries := schema.SummarizeDatasets(datasets)
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsCSV(w, summaries, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for paths")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(w, summaries, active, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

// writeMetricsTable generates and writes the human-readable table.
func writeMetricsTable(w io.Writer, summaries []schema.MetricSummary, active string, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Order", "ID", "Title", "Subtitle", "Unit", "Points", "Baseline", "Current", "Trend"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	textWidth := GetMaxTableTextWidth(cfg)
	var data [][]string
	for _, s := range summaries {
		data = append(data, []string{
			strconv.Itoa(s.Order),
			activeMarker(s.ID, active, cfg),
			contract.TruncateText(s.Title, textWidth),
			contract.TruncateText(s.Subtitle, textWidth),
			s.Unit,
			fmt.Sprintf(intFmt, s.Points),
			fmtFloat(s.FinalBaseline),
			fmtFloat(s.FinalCurrent),
			trendLabel(s.Trend, cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d metrics. Cycle interval: %s. Cache backend: %s\n", len(summaries), cfg.Interval, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeMetricsCSV writes one row per dataset.
func writeMetricsCSV(w io.Writer, summaries []schema.MetricSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"order", "id", "title", "subtitle", "unit", "points", "final_baseline", "final_current", "trend"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			rec := []string{
				strconv.Itoa(s.Order),
				s.ID,
				s.Title,
				s.Subtitle,
				s.Unit,
				fmt.Sprintf(intFmt, s.Points),
				fmtFloat(s.FinalBaseline),
				fmtFloat(s.FinalCurrent),
				s.Trend,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
